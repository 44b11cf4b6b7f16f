package app

import (
	"context"
	"fmt"

	"github.com/miteshsondhi/swagger-stats/internal/domain"
	"github.com/miteshsondhi/swagger-stats/internal/ports"
)

// Bootstrap makes sure the index template for prefix is installed.
// It checks once and creates the template if it is missing; it never retries.
func Bootstrap(ctx context.Context, store ports.TemplateStore, prefix string, logger ports.Logger) error {
	name := domain.TemplateName(prefix)

	exists, err := store.TemplateExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check template %s: %w", name, err)
	}
	if exists {
		logger.Debug("index template present", ports.String("template", name))
		return nil
	}

	body, err := domain.IndexTemplate(prefix)
	if err != nil {
		return err
	}
	if err := store.PutTemplate(ctx, name, body); err != nil {
		return fmt.Errorf("put template %s: %w", name, err)
	}

	logger.Info("index template created",
		ports.String("template", name),
		ports.String("pattern", prefix+"*"),
	)
	return nil
}
