package models

import "time"

// Configuration хранит пользовательские настройки интерфейса (один к одному с User).
type Configuration struct {
	ID            int64     `json:"id"`
	UserUID       string    `json:"user_uid"`
	Country       string    `json:"country"`
	Currency      string    `json:"currency"`
	Language      string    `json:"language"`
	SetupComplete bool      `json:"setup_complete"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ConfigurationPatch частичное обновление конфигурации. nil означает
// «поле не передано»; других полей для обновления не существует.
type ConfigurationPatch struct {
	Country       *string `json:"country,omitempty" validate:"omitempty,max=50"`
	Currency      *string `json:"currency,omitempty" validate:"omitempty,max=10"`
	Language      *string `json:"language,omitempty" validate:"omitempty,max=10"`
	SetupComplete *bool   `json:"setup_complete,omitempty"`
}

// DefaultConfiguration возвращает настройки по умолчанию для пользователя
// без сохранённой конфигурации.
func DefaultConfiguration(userUID string) Configuration {
	return Configuration{
		UserUID:  userUID,
		Country:  "Venezuela",
		Currency: "USD",
		Language: "es",
	}
}
