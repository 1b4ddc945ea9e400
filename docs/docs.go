// Package docs регистрирует OpenAPI-описание сервиса для Swagger UI.
// Шаблон пересобирается командой go generate ./cmd/broker-admin.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "http://swagger.io/terms/",
        "contact": {
            "name": "API Support",
            "url": "http://www.swagger.io/support",
            "email": "support@swagger.io"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/register": {
            "post": {
                "description": "Создаёт пользователя. Мастер-ключ лицензии даёт полную лицензию, иначе выдаётся пробная.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Регистрация пользователя",
                "parameters": [
                    {
                        "description": "Данные пользователя",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/register.Request"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.User"}},
                    "400": {"description": "Некорректный JSON, имя пользователя или email заняты", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "500": {"description": "Внутренняя ошибка сервера", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/auth/token": {
            "post": {
                "description": "Аутентифицирует пользователя по имени и паролю и возвращает bearer-токен.",
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Получение токена доступа",
                "parameters": [
                    {"type": "string", "description": "Имя пользователя", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "Пароль", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/login.Response"}},
                    "400": {"description": "Некорректная форма", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "401": {"description": "Неверные учетные данные", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "429": {"description": "Слишком много запросов", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "500": {"description": "Внутренняя ошибка сервера", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/auth/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Текущий пользователь",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}},
                    "401": {"description": "Не авторизован", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/auth/license-status": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Возвращает, активна ли лицензия, и сообщение с оставшимся сроком пробного периода.",
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Состояние лицензии",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/licensestatus.Response"}},
                    "401": {"description": "Не авторизован", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "500": {"description": "Внутренняя ошибка сервера", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/auth/license/activate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Выдаёт полную лицензию по мастер-ключу и снимает блокировку учётной записи.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Активация лицензии",
                "parameters": [
                    {
                        "description": "Ключ лицензии",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/activate.Request"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/licensestatus.Response"}},
                    "400": {"description": "Неверный ключ", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "401": {"description": "Не авторизован", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "500": {"description": "Внутренняя ошибка сервера", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/protected-route": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Защищённый маршрут",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Не авторизован", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "403": {"description": "Лицензия не активна", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/configuracion": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Configuration"],
                "summary": "Получить конфигурацию",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Configuration"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Создаёт конфигурацию или обновляет переданные поля. Неизвестные поля отклоняются.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Configuration"],
                "summary": "Обновить конфигурацию",
                "parameters": [
                    {
                        "description": "Изменяемые поля",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.ConfigurationPatch"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Configuration"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Configuration"],
                "summary": "Удалить конфигурацию",
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Проверка состояния",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "activate.Request": {
            "type": "object",
            "required": ["license_key"],
            "properties": {
                "license_key": {"type": "string", "maxLength": 255}
            }
        },
        "licensestatus.Response": {
            "type": "object",
            "properties": {
                "is_license_active": {"type": "boolean"},
                "message": {"type": "string", "example": "Full license active."},
                "state": {"type": "string", "example": "full_active"}
            }
        },
        "login.Response": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "token_type": {"type": "string", "example": "bearer"}
            }
        },
        "models.Configuration": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "user_uid": {"type": "string"},
                "country": {"type": "string"},
                "currency": {"type": "string"},
                "language": {"type": "string"},
                "setup_complete": {"type": "boolean"},
                "updated_at": {"type": "string"}
            }
        },
        "models.ConfigurationPatch": {
            "type": "object",
            "properties": {
                "country": {"type": "string", "maxLength": 50},
                "currency": {"type": "string", "maxLength": 10},
                "language": {"type": "string", "maxLength": 10},
                "setup_complete": {"type": "boolean"}
            }
        },
        "models.User": {
            "type": "object",
            "properties": {
                "uid": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "is_active": {"type": "boolean"},
                "license_start": {"type": "string"},
                "license_end": {"type": "string"},
                "is_trial": {"type": "boolean"},
                "is_blocked": {"type": "boolean"},
                "blocked_at": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "register.Request": {
            "type": "object",
            "required": ["email", "password", "username"],
            "properties": {
                "username": {"type": "string", "maxLength": 50, "minLength": 3, "example": "broker01"},
                "email": {"type": "string", "maxLength": 255, "example": "broker01@example.com"},
                "password": {"type": "string", "maxLength": 128, "minLength": 6, "example": "s3cret-pass"},
                "master_license_key": {"type": "string", "maxLength": 255}
            }
        },
        "response.ErrorResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "Error"},
                "error": {"type": "string", "example": "could not validate credentials"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo содержит экспортируемую информацию Swagger, чтобы клиенты могли её изменять.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Insurance Broker Admin API",
	Description:      "Административный бэкенд страхового брокера: учётные записи, JWT и лицензии",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
