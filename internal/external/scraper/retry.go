package scraper

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// waitFunc ждет появления селектора в пределах ctx
type waitFunc func(ctx context.Context, selector string) error

// waitForAny перебирает селекторы по кругу, пока один из них не появится.
// Каждое ожидание ограничено SelectorTimeout, кругов не больше Attempts.
// Если ни один признак не появился, возвращает ErrNoResults.
func waitForAny(ctx context.Context, logger *zap.Logger, config WaitConfig, selectors []string, wait waitFunc) (string, error) {
	for attempt := 0; attempt < config.Attempts; attempt++ {
		for _, selector := range selectors {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			default:
			}

			waitCtx, cancel := context.WithTimeout(ctx, config.SelectorTimeout)
			err := wait(waitCtx, selector)
			cancel()

			if err == nil {
				if attempt > 0 {
					logger.Debug("Selector appeared after retry",
						zap.String("selector", selector),
						zap.Int("attempt", attempt+1))
				}
				return selector, nil
			}

			if ctx.Err() != nil {
				return "", ctx.Err()
			}

			if !errors.Is(err, context.DeadlineExceeded) {
				logger.Debug("Selector wait failed",
					zap.String("selector", selector),
					zap.Error(err))
			}
		}

		if attempt == config.Attempts-1 {
			break
		}

		logger.Debug("No ready selector yet, pausing",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", config.Attempts),
			zap.Duration("pause", config.RetryPause))

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(config.RetryPause):
		}
	}

	return "", ErrNoResults
}
