package config

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/rileyhilliard/sysmon/internal/errors"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// validatorInstance reports field names by their yaml key so messages match
// what the user sees in config.yaml.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// FieldProblem is one invalid setting.
type FieldProblem struct {
	Key     string // dotted yaml key, e.g. "ui.theme_mode"
	Message string
}

// Check returns every invalid field in cfg.
func Check(cfg *Settings) []FieldProblem {
	err := validatorInstance().Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return []FieldProblem{{Key: "settings", Message: err.Error()}}
	}

	problems := make([]FieldProblem, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, FieldProblem{
			Key:     fieldKey(fe),
			Message: describe(fe),
		})
	}
	return problems
}

// Validate checks cfg and returns a structured error listing each problem.
func Validate(cfg *Settings) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Settings file is from a newer sysmon (version %d, this build knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade sysmon or run 'sysmon config reset'")
	}

	problems := Check(cfg)
	if len(problems) == 0 {
		return nil
	}

	msgs := make([]string, len(problems))
	for i, p := range problems {
		msgs[i] = p.Key + ": " + p.Message
	}
	return errors.New(errors.ErrConfig,
		"Invalid settings: "+strings.Join(msgs, "; "),
		"Run 'sysmon config edit' to fix them interactively")
}

// Sanitize repairs cfg in place and returns the keys it changed. The
// interval is clamped into range; every other invalid field is reset to its
// default.
func Sanitize(cfg *Settings) []string {
	var changed []string
	def := DefaultSettings()

	if cfg.Version > CurrentConfigVersion || cfg.Version < 0 {
		cfg.Version = CurrentConfigVersion
		changed = append(changed, "version")
	}

	for _, p := range Check(cfg) {
		switch p.Key {
		case "ui.font_size":
			cfg.UI.FontSize = def.UI.FontSize
		case "ui.update_interval_ms":
			cfg.UI.UpdateIntervalMS = int(ClampInterval(cfg.UI.Interval()).Milliseconds())
		case "ui.theme_mode":
			cfg.UI.ThemeMode = def.UI.ThemeMode
		case "sampler.process_limit":
			cfg.Sampler.ProcessLimit = def.Sampler.ProcessLimit
		case "sampler.process_deadline":
			cfg.Sampler.ProcessDeadline = def.Sampler.ProcessDeadline
		case "sampler.disk_path":
			cfg.Sampler.DiskPath = def.Sampler.DiskPath
		default:
			continue
		}
		changed = append(changed, p.Key)
	}
	return changed
}

// fieldKey turns "Settings.ui.theme_mode" into "ui.theme_mode".
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("must be at least %s (got %v)", fe.Param(), fe.Value())
	case "max":
		return fmt.Sprintf("must be at most %s (got %v)", fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of %s (got %q)", strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value())
	case "required":
		return "is required"
	case "startswith":
		return fmt.Sprintf("must start with %q", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
