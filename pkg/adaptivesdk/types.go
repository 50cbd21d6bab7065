package adaptivesdk

// BootstrapTokenHeader carries the one-time bootstrap token on POST /bootstrap.
const BootstrapTokenHeader = "X-Bootstrap-Token"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error            string            `json:"error"`
	ErrorDescription string            `json:"error_description,omitempty"`
	Details          map[string]string `json:"details,omitempty"`
}

// LoginRequest is the body of POST /auth/login. OTP is only checked for
// principals that enrolled a second factor.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=128"`
	OTP      string `json:"otp,omitempty" validate:"omitempty,numeric,len=6"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresIn int    `json:"expiresIn"`
}

// RegisterRequest is the body of POST /auth/register and POST /bootstrap.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	FullName string `json:"fullName" validate:"required,max=200"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// CreatePrincipalRequest is the body of POST /principals.
type CreatePrincipalRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	FullName string `json:"fullName" validate:"required,max=200"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role" validate:"required,oneof=STUDENT INSTRUCTOR ADMIN"`
	// EnrollTOTP generates a second factor for the new principal.
	EnrollTOTP bool `json:"enrollTotp,omitempty"`
}

// CreatedResponse carries the id of a newly created resource.
type CreatedResponse struct {
	ID string `json:"id"`
}

// PrincipalCreatedResponse is CreatedResponse plus the TOTP provisioning
// URL when a second factor was enrolled. It is only ever shown once.
type PrincipalCreatedResponse struct {
	ID      string `json:"id"`
	TOTPURL string `json:"totpUrl,omitempty"`
}

// MeResponse describes the caller as seen by the authentication gate.
type MeResponse struct {
	PrincipalID string `json:"principalId"`
	Subject     string `json:"subject"`
	Role        string `json:"role"`
	ExpiresAt   int64  `json:"expiresAt"`
}

// StartSessionRequest is the body of POST /sessions.
type StartSessionRequest struct {
	LessonID string `json:"lessonId" validate:"required,max=128"`
}

// RecordEmotionRequest is the body of POST /sessions/{sessionId}/emotion.
// Timestamp is an RFC 3339 instant with an explicit offset. The server
// checks it after the session exists, so it carries no validate tag.
type RecordEmotionRequest struct {
	Timestamp        string   `json:"timestamp"`
	FrustrationScore *float64 `json:"frustrationScore" validate:"required"`
	FaceDetected     bool     `json:"faceDetected"`
	MetaJSON         string   `json:"metaJson,omitempty" validate:"max=65536"`
}

// SessionStats is the windowed summary for one session.
type SessionStats struct {
	SessionID            string  `json:"sessionId"`
	WindowSeconds        int64   `json:"windowSeconds"`
	AverageFrustration   float64 `json:"averageFrustration"`
	MaxFrustration       float64 `json:"maxFrustration"`
	CountHighFrustration int     `json:"countHighFrustration"`
	TotalEvents          int     `json:"totalEvents"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string            `json:"status"`
	Uptime  string            `json:"uptime,omitempty"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}
