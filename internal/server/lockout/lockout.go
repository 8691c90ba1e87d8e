package lockout

import (
	"context"
	"log/slog"
	"time"

	"github.com/solos-dev/solos/internal/crypto"
	"github.com/solos-dev/solos/internal/models"
	"github.com/solos-dev/solos/internal/server/storage"
)

// Policy решает, заблокирован ли identity после серии неудачных входов.
// Блокировка — вычисляемое состояние, не хранимый флаг: она выводится
// из журнала при каждой проверке и снимается сама, когда окно
// сдвигается за старые попытки.
type Policy struct {
	log       storage.AuditLog
	logger    *slog.Logger
	window    time.Duration
	threshold int
	now       func() time.Time
}

// NewPolicy создает политику блокировки.
// threshold неудачных попыток внутри скользящего окна window блокируют identity.
func NewPolicy(log storage.AuditLog, logger *slog.Logger, threshold int, window time.Duration) *Policy {
	return &Policy{
		log:       log,
		logger:    logger,
		window:    window,
		threshold: threshold,
		now:       time.Now,
	}
}

// WithClock подменяет источник времени. Используется в тестах.
func (p *Policy) WithClock(now func() time.Time) *Policy {
	p.now = now
	return p
}

// RecordFailure записывает неудачную попытку входа.
// Ошибка записи аудита логируется и проглатывается: аудит не имеет права
// блокировать операцию, которую он сопровождает.
func (p *Policy) RecordFailure(ctx context.Context, identity, ip string) {
	attempt := &models.FailedAttempt{
		IdentityHash: crypto.IndexIdentity(identity),
		IPAddress:    ip,
		Timestamp:    p.now(),
	}

	if err := p.log.AppendFailure(ctx, attempt); err != nil {
		p.logger.ErrorContext(ctx, "failed to record login failure",
			slog.Any("error", err))
	}
}

// IsLocked проверяет, достиг ли identity порога блокировки.
// Ошибка чтения журнала тоже логируется и трактуется как "не заблокирован":
// недоступный аудит не должен отрезать всех пользователей от входа.
func (p *Policy) IsLocked(ctx context.Context, identity string) bool {
	since := p.now().Add(-p.window)

	count, err := p.log.CountFailuresSince(ctx, crypto.IndexIdentity(identity), since)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to count login failures",
			slog.Any("error", err))
		return false
	}

	return count >= p.threshold
}
