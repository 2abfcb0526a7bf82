package proto

import "time"

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type RegisterUserRequest struct {
	Username  string `json:"username"`
	Salt      []byte `json:"salt"`
	Verifier  []byte `json:"verifier"`
	PublicKey []byte `json:"public_key"`
	SealedKey []byte `json:"sealed_key"`
	KeyNonce  []byte `json:"key_nonce"`
}

type RegisterUserResponse struct{}

type GetSaltRequest struct {
	Username string `json:"username"`
}

type GetSaltResponse struct {
	Salt []byte `json:"salt"`
}

type LoginRequest struct {
	Username          string `json:"username"`
	VerifierCandidate []byte `json:"verifier_candidate"`
}

// LoginResponse carries the tokens and the caller's sealed identity key.
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	PublicKey    []byte `json:"public_key"`
	SealedKey    []byte `json:"sealed_key"`
	KeyNonce     []byte `json:"key_nonce"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LookupIdentityRequest struct {
	Username string `json:"username"`
}

type LookupIdentityResponse struct {
	Username  string `json:"username"`
	PublicKey []byte `json:"public_key"`
}

type SendMessageRequest struct {
	Channel   string `json:"channel"`
	Recipient string `json:"recipient"`
	Body      string `json:"body"`
}

type SendMessageResponse struct {
	MessageId string `json:"message_id"`
}

type ListMessagesRequest struct {
	Channel string `json:"channel"`
}

type Message struct {
	MessageId string    `json:"message_id"`
	Sender    string    `json:"sender"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type ListMessagesResponse struct {
	Messages []*Message `json:"messages"`
}

type AckMessagesRequest struct {
	MessageIds []string `json:"message_ids"`
}

type AckMessagesResponse struct {
	Acknowledged int32 `json:"acknowledged"`
}
