// Package license вычисляет состояние лицензии пользователя по сохранённым
// датам и текущему моменту. Состояние не хранится и не кэшируется: оно
// пересчитывается при каждом запросе.
package license

import (
	"fmt"
	"time"

	"github.com/magabrotheeeer/insurtech-admin/internal/models"
)

const (
	// TrialPeriod срок пробной лицензии.
	TrialPeriod = 48 * time.Hour
	// FullPeriod срок полной лицензии, выдаваемой по мастер-ключу.
	FullPeriod = 365 * 24 * time.Hour
)

// State состояние лицензии.
type State string

// Возможные состояния лицензии.
const (
	NoLicense    State = "no_license"
	TrialActive  State = "trial_active"
	TrialExpired State = "trial_expired"
	FullActive   State = "full_active"
	FullExpired  State = "full_expired"
	Blocked      State = "blocked"
	Inactive     State = "inactive"
)

// Status результат вычисления: состояние, остаток срока и сообщение для клиента.
type Status struct {
	State     State
	Remaining time.Duration
	Message   string
}

// Active сообщает, даёт ли состояние доступ к системе.
func (s Status) Active() bool {
	return s.State == TrialActive || s.State == FullActive
}

// Evaluator вычисляет состояние лицензии с заданным сроком пробного периода
// и сроком блокировки после неудачных входов.
type Evaluator struct {
	TrialPeriod   time.Duration
	LockoutPeriod time.Duration
}

// NewEvaluator создает Evaluator. Нулевой пробный период заменяется на TrialPeriod,
// нулевой срок блокировки означает блокировку до активации лицензии.
func NewEvaluator(trialPeriod, lockoutPeriod time.Duration) *Evaluator {
	if trialPeriod <= 0 {
		trialPeriod = TrialPeriod
	}
	return &Evaluator{TrialPeriod: trialPeriod, LockoutPeriod: lockoutPeriod}
}

// LockoutExpired сообщает, истёк ли срок блокировки на момент now.
// Блокировка без отметки времени не истекает.
func (e *Evaluator) LockoutExpired(user *models.User, now time.Time) bool {
	if user.BlockedAt == nil || e.LockoutPeriod <= 0 {
		return false
	}
	return !models.ToUTC(now).Before(models.ToUTC(*user.BlockedAt).Add(e.LockoutPeriod))
}

// Evaluate вычисляет состояние лицензии пользователя на момент now.
// Все даты приводятся к UTC до сравнения.
func (e *Evaluator) Evaluate(user *models.User, now time.Time) Status {
	if user == nil {
		return Status{State: NoLicense, Message: "No license."}
	}
	now = models.ToUTC(now)

	if !user.IsActive {
		return Status{State: Inactive, Message: "User inactive."}
	}
	if user.IsBlocked && !e.LockoutExpired(user, now) {
		return Status{State: Blocked, Message: "Account blocked."}
	}

	if user.IsTrial {
		end := e.trialEnd(user, now)
		if now.Before(end) {
			remaining := end.Sub(now)
			return Status{
				State:     TrialActive,
				Remaining: remaining,
				Message:   "Trial license active. " + formatRemaining(remaining),
			}
		}
		return Status{State: TrialExpired, Message: "Trial license expired."}
	}

	if user.LicenseEnd == nil {
		return Status{State: Inactive, Message: "License not defined or invalid."}
	}
	end := models.ToUTC(*user.LicenseEnd)
	if now.Before(end) {
		return Status{State: FullActive, Remaining: end.Sub(now), Message: "Full license active."}
	}
	return Status{State: FullExpired, Message: "Full license expired."}
}

// trialEnd возвращает окончание пробного периода. Если license_end не задан,
// окончание отсчитывается от license_start (или от now, если и он пуст).
func (e *Evaluator) trialEnd(user *models.User, now time.Time) time.Time {
	if user.LicenseEnd != nil {
		return models.ToUTC(*user.LicenseEnd)
	}
	start := now
	if user.LicenseStart != nil {
		start = models.ToUTC(*user.LicenseStart)
	}
	return start.Add(e.TrialPeriod)
}

func formatRemaining(d time.Duration) string {
	days := int(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hours := int(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes := int(d / time.Minute)
	return fmt.Sprintf("%d days, %d hours and %d minutes remaining.", days, hours, minutes)
}
