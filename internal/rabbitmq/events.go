package rabbitmq

import "time"

// Ключи маршрутизации событий.
const (
	RoutingUserRegistered   = "user.registered"
	RoutingLicenseActivated = "license.activated"
)

// UserRegistered публикуется после успешной регистрации.
type UserRegistered struct {
	UserUID    string     `json:"user_uid"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	IsTrial    bool       `json:"is_trial"`
	LicenseEnd *time.Time `json:"license_end,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// LicenseActivated публикуется после выдачи полной лицензии по мастер-ключу.
type LicenseActivated struct {
	UserUID    string    `json:"user_uid"`
	Username   string    `json:"username"`
	LicenseEnd time.Time `json:"license_end"`
	OccurredAt time.Time `json:"occurred_at"`
}
