package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Badsnus/qrbatch/internal/domain/common/errorz"
	"github.com/Badsnus/qrbatch/internal/domain/entity"
	"github.com/Badsnus/qrbatch/internal/domain/utils/filename"
	"github.com/Badsnus/qrbatch/internal/domain/utils/validator"
)

type PresetStorage interface {
	Save(ctx context.Context, name string, values map[string]any) error
	Load(ctx context.Context, name string) (map[string]any, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
}

// Preset is a named bundle of raw form values plus the tabular delimiter.
type Preset struct {
	Form      validator.Form
	Delimiter string
}

// presetDefaults are applied per key when a stored document lacks it.
var presetDefaults = map[string]any{
	"mode":                    string(entity.ModeSequential),
	"valid_uses":              "",
	"volume":                  "",
	"end_date":                "",
	"security_code":           "SECD",
	"suffix_code":             "23FF45EE",
	"count":                   "1",
	"input_column":            "0",
	"skip_first_row":          false,
	"delimiter":               "",
	"color":                   "#000000",
	"background_color":        "#FFFFFF",
	"qr_version":              "auto",
	"error_correction":        "L",
	"box_size":                "10",
	"border":                  "4",
	"format":                  "png",
	"png_quality":             "85",
	"svg_precision":           "2",
	"vector_style":            "rect",
	"raster_size":             0,
	"logo":                    "",
	"logo_scale":              validator.DefaultLogoScale,
	"filename_prefix":         "",
	"filename_suffix":         "",
	"use_payload_as_filename": true,
}

type PresetService struct {
	log           *zap.SugaredLogger
	presetStorage PresetStorage
}

func NewPresetService(storage PresetStorage, log *zap.SugaredLogger) *PresetService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &PresetService{
		log:           log,
		presetStorage: storage,
	}
}

// checkName accepts names that survive filename sanitizing unchanged.
func checkName(name string) error {
	if strings.TrimSpace(name) == "" || filename.Sanitize(name) != name {
		return fmt.Errorf("%w: %q", errorz.ErrInvalidPresetName, name)
	}
	return nil
}

func (s *PresetService) Save(ctx context.Context, name string, preset Preset) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := s.presetStorage.Save(ctx, name, PresetDocument(preset)); err != nil {
		return err
	}
	s.log.Infow("preset saved", "name", name)
	return nil
}

// Load reads a preset. Keys missing from the stored document take their defaults.
func (s *PresetService) Load(ctx context.Context, name string) (Preset, error) {
	if err := checkName(name); err != nil {
		return Preset{}, err
	}
	doc, err := s.presetStorage.Load(ctx, name)
	if err != nil {
		return Preset{}, err
	}

	var missing []string
	for key := range presetDefaults {
		if _, ok := doc[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		s.log.Debugw("preset keys defaulted", "name", name, "keys", missing)
	}

	preset, err := PresetFromDocument(doc)
	if err != nil {
		return Preset{}, fmt.Errorf("decode preset %q: %w", name, err)
	}
	s.log.Infow("preset loaded", "name", name)
	return preset, nil
}

func (s *PresetService) List(ctx context.Context) ([]string, error) {
	return s.presetStorage.List(ctx)
}

func (s *PresetService) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	return s.presetStorage.Delete(ctx, name)
}

// PresetDocument flattens a preset into its stored key-value form.
func PresetDocument(p Preset) map[string]any {
	f := p.Form
	return map[string]any{
		"mode":                    string(f.Mode),
		"valid_uses":              f.UsageLimit,
		"volume":                  f.Volume,
		"end_date":                f.ExpiryDate,
		"security_code":           f.SecurityCode,
		"suffix_code":             f.SuffixCode,
		"count":                   f.Count,
		"input_column":            f.Column,
		"skip_first_row":          f.SkipHeader,
		"delimiter":               p.Delimiter,
		"color":                   f.Foreground,
		"background_color":        f.Background,
		"qr_version":              f.Version,
		"error_correction":        f.ErrorCorrection,
		"box_size":                f.ModuleSize,
		"border":                  f.Border,
		"format":                  f.Format,
		"png_quality":             f.Quality,
		"svg_precision":           f.Precision,
		"vector_style":            f.VectorStyle,
		"raster_size":             f.RasterSize,
		"logo":                    f.LogoPath,
		"logo_scale":              f.LogoScale,
		"filename_prefix":         f.Prefix,
		"filename_suffix":         f.Suffix,
		"use_payload_as_filename": f.UsePayloadAsFilename,
	}
}

// PresetFromDocument rebuilds a preset. Values may be strings, numbers or
// booleans; redis hashes deliver everything as strings.
func PresetFromDocument(doc map[string]any) (Preset, error) {
	v := viper.New()
	for key, value := range presetDefaults {
		v.SetDefault(key, value)
	}
	if err := v.MergeConfigMap(doc); err != nil {
		return Preset{}, err
	}

	return Preset{
		Form: validator.Form{
			Mode:                 entity.ParseMode(v.GetString("mode")),
			UsageLimit:           v.GetString("valid_uses"),
			Volume:               v.GetString("volume"),
			ExpiryDate:           v.GetString("end_date"),
			SecurityCode:         v.GetString("security_code"),
			SuffixCode:           v.GetString("suffix_code"),
			Count:                v.GetString("count"),
			Column:               v.GetString("input_column"),
			SkipHeader:           v.GetBool("skip_first_row"),
			Foreground:           v.GetString("color"),
			Background:           v.GetString("background_color"),
			Version:              v.GetString("qr_version"),
			ErrorCorrection:      v.GetString("error_correction"),
			ModuleSize:           v.GetString("box_size"),
			Border:               v.GetString("border"),
			Format:               v.GetString("format"),
			Quality:              v.GetString("png_quality"),
			Precision:            v.GetString("svg_precision"),
			VectorStyle:          v.GetString("vector_style"),
			RasterSize:           v.GetInt("raster_size"),
			LogoPath:             v.GetString("logo"),
			LogoScale:            v.GetFloat64("logo_scale"),
			Prefix:               v.GetString("filename_prefix"),
			Suffix:               v.GetString("filename_suffix"),
			UsePayloadAsFilename: v.GetBool("use_payload_as_filename"),
		},
		Delimiter: v.GetString("delimiter"),
	}, nil
}
