package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/greyamp/alignops/internal/model"
)

// Template is a reusable pipeline definition loaded from YAML, typically the
// org's standard hiring funnels seeded into a fresh environment.
type Template struct {
	Name        string          `yaml:"name"`
	ClientRef   string          `yaml:"client_ref,omitempty"`
	Description string          `yaml:"description,omitempty"`
	Stages      []TemplateStage `yaml:"stages"`
}

// TemplateStage is one stage of a template.
type TemplateStage struct {
	Name           string  `yaml:"name"`
	Order          int     `yaml:"order"`
	ConversionRate float64 `yaml:"conversion_rate"`
	TATDays        int     `yaml:"tat_days"`
	IsSpecial      bool    `yaml:"is_special,omitempty"`
	MapsToStatus   string  `yaml:"maps_to_status,omitempty"`
	Flag           string  `yaml:"status_flag,omitempty"`
}

// ParseTemplates decodes a YAML document holding a list of templates.
func ParseTemplates(data []byte) ([]Template, error) {
	var doc struct {
		Pipelines []Template `yaml:"pipelines"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "pipeline: parse templates")
	}
	if len(doc.Pipelines) == 0 {
		return nil, eris.New("pipeline: template file defines no pipelines")
	}
	return doc.Pipelines, nil
}

// Import creates a pipeline and its stages from a template. Stage validation
// and special-stage normalization run per stage, so a bad template fails on
// the first offending stage with nothing rolled back; re-importing under a
// fixed template is the recovery path.
func (s *Service) Import(ctx context.Context, tmpl Template) (int64, error) {
	if len(tmpl.Stages) == 0 {
		return 0, model.NewValidation("template", "pipeline %q defines no stages", tmpl.Name)
	}

	id, err := s.CreatePipeline(ctx, tmpl.Name, tmpl.ClientRef, tmpl.Description)
	if err != nil {
		return 0, err
	}

	for _, ts := range tmpl.Stages {
		if _, err := s.AddStage(ctx, id, StageInput{
			Name:           ts.Name,
			Order:          model.StageOrder(ts.Order),
			ConversionRate: ts.ConversionRate,
			TATDays:        ts.TATDays,
			IsSpecial:      ts.IsSpecial,
			MapsToStatus:   ts.MapsToStatus,
			Flag:           model.StatusFlag(ts.Flag),
		}); err != nil {
			return 0, eris.Wrapf(err, "pipeline: import stage %q", ts.Name)
		}
	}

	zap.L().Info("pipeline: imported from template",
		zap.Int64("pipeline_id", id),
		zap.String("name", tmpl.Name),
		zap.Int("stages", len(tmpl.Stages)),
	)
	return id, nil
}
