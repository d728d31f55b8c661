package config

import (
	"errors"
	"fmt"
	"strings"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Badsnus/qrbatch/internal/domain/entity"
	"github.com/Badsnus/qrbatch/internal/domain/utils/validator"
	"github.com/Badsnus/qrbatch/pkg/logger"
)

const envPrefix = "QRBATCH"

// ErrHelp is returned by Load when usage was requested.
var ErrHelp = pflag.ErrHelp

type Settings struct {
	Log logger.Config

	// Form holds the raw generation values; they are checked by Form.Validate.
	Form validator.Form `validate:"-"`

	Input    InputSettings
	Output   OutputSettings
	Presets  PresetSettings
	Redis    RedisSettings
	Database DatabaseSettings
	SMTP     SMTPSettings
	Telegram TelegramSettings
	History  HistorySettings

	MetricsTextfile string
}

type InputSettings struct {
	Path      string `validate:"required_if=Tabular true"`
	Tabular   bool
	Encoding  string `validate:"omitempty,oneof=utf-8 utf8 windows-1251 cp1251 iso-8859-1 latin1"`
	Delimiter string `validate:"max=3"`
	Sheet     string
}

type OutputSettings struct {
	Dir     string `validate:"required"`
	Zip     bool
	ZipName string
	Cleanup bool
}

type PresetSettings struct {
	Backend string `validate:"oneof=file redis"`
	Dir     string `validate:"required_if=Backend file"`
	Load    string
	Save    string
	Delete  string
	List    bool
}

type RedisSettings struct {
	Host     string
	Port     int `validate:"min=1,max=65535"`
	Password string
	DB       int `validate:"min=0"`
}

type DatabaseSettings struct {
	Enabled  bool
	Host     string `validate:"required_if=Enabled true"`
	Port     int    `validate:"min=1,max=65535"`
	User     string
	Password string
	Name     string `validate:"required_if=Enabled true"`
	SSLMode  string `validate:"oneof=disable require verify-ca verify-full"`
}

type SMTPSettings struct {
	Enabled  bool
	Host     string `validate:"required_if=Enabled true"`
	Port     int    `validate:"min=1,max=65535"`
	User     string
	Password string
	From     string   `validate:"required_if=Enabled true,omitempty,email"`
	To       []string `validate:"required_if=Enabled true,dive,email"`
	Domain   string
}

type TelegramSettings struct {
	Enabled bool
	Token   string `validate:"required_if=Enabled true"`
	ChatID  int64
}

type HistorySettings struct {
	List int `validate:"min=0"`
	Show string
}

// DelimiterRune returns the configured delimiter, or 0 for auto-detection.
// "tab" and "\t" name the tab character.
func (s InputSettings) DelimiterRune() (rune, error) {
	switch s.Delimiter {
	case "":
		return 0, nil
	case "tab", "\\t":
		return '\t', nil
	}
	if r := []rune(s.Delimiter); len(r) == 1 {
		return r[0], nil
	}
	return 0, fmt.Errorf("delimiter must be a single character, got %q", s.Delimiter)
}

// DSN is the postgres connection string for the run history.
func (s DatabaseSettings) DSN() string {
	return fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		s.User, s.Password, s.Name, s.Host, s.Port, s.SSLMode)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("settings.debug", false)
	v.SetDefault("settings.timezone", "")
	v.SetDefault("settings.log-to-file", false)
	v.SetDefault("settings.logs-dir", "logs")
	v.SetDefault("settings.log-prefix", "")

	v.SetDefault("generation.mode", string(entity.ModeSequential))
	v.SetDefault("generation.usage-limit", "")
	v.SetDefault("generation.volume", "")
	v.SetDefault("generation.expiry-date", "")
	v.SetDefault("generation.security-code", "SECD")
	v.SetDefault("generation.suffix-code", "23FF45EE")
	v.SetDefault("generation.count", "1")
	v.SetDefault("generation.input", "")
	v.SetDefault("generation.column", "0")
	v.SetDefault("generation.skip-header", false)
	v.SetDefault("generation.encoding", "utf-8")
	v.SetDefault("generation.delimiter", "")
	v.SetDefault("generation.sheet", "")

	v.SetDefault("colors.foreground", "#000000")
	v.SetDefault("colors.background", "#FFFFFF")

	v.SetDefault("encoding.version", "auto")
	v.SetDefault("encoding.error-correction", "L")
	v.SetDefault("encoding.module-size", "10")
	v.SetDefault("encoding.border", "4")

	v.SetDefault("output.format", "png")
	v.SetDefault("output.quality", "85")
	v.SetDefault("output.precision", "2")
	v.SetDefault("output.vector-style", "rect")
	v.SetDefault("output.size", 0)
	v.SetDefault("output.logo", "")
	v.SetDefault("output.logo-scale", validator.DefaultLogoScale)
	v.SetDefault("output.prefix", "")
	v.SetDefault("output.suffix", "")
	v.SetDefault("output.use-payload-filename", true)
	v.SetDefault("output.dir", "output")
	v.SetDefault("output.zip", true)
	v.SetDefault("output.zip-name", "")
	v.SetDefault("output.cleanup", false)

	v.SetDefault("presets.backend", "file")
	v.SetDefault("presets.dir", "presets")
	v.SetDefault("presets.load", "")
	v.SetDefault("presets.save", "")
	v.SetDefault("presets.delete", "")
	v.SetDefault("presets.list", false)

	v.SetDefault("service.redis.host", "localhost")
	v.SetDefault("service.redis.port", 6379)
	v.SetDefault("service.redis.password", "")
	v.SetDefault("service.redis.db", 0)

	v.SetDefault("service.database.enabled", false)
	v.SetDefault("service.database.host", "localhost")
	v.SetDefault("service.database.port", 5432)
	v.SetDefault("service.database.user", "postgres")
	v.SetDefault("service.database.password", "")
	v.SetDefault("service.database.name", "qrbatch")
	v.SetDefault("service.database.sslmode", "disable")

	v.SetDefault("delivery.smtp.enabled", false)
	v.SetDefault("delivery.smtp.host", "")
	v.SetDefault("delivery.smtp.port", 587)
	v.SetDefault("delivery.smtp.user", "")
	v.SetDefault("delivery.smtp.password", "")
	v.SetDefault("delivery.smtp.from", "")
	v.SetDefault("delivery.smtp.to", []string{})
	v.SetDefault("delivery.smtp.domain", "localhost")

	v.SetDefault("delivery.telegram.enabled", false)
	v.SetDefault("delivery.telegram.token", "")
	v.SetDefault("delivery.telegram.chat-id", 0)

	v.SetDefault("history.list", 0)
	v.SetDefault("history.show", "")

	v.SetDefault("metrics.textfile", "")
}

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"debug":         "settings.debug",
	"mode":          "generation.mode",
	"uses":          "generation.usage-limit",
	"volume":        "generation.volume",
	"date":          "generation.expiry-date",
	"security-code": "generation.security-code",
	"suffix-code":   "generation.suffix-code",
	"count":         "generation.count",
	"input":         "generation.input",
	"column":        "generation.column",
	"skip-header":   "generation.skip-header",
	"encoding":      "generation.encoding",
	"delimiter":     "generation.delimiter",
	"sheet":         "generation.sheet",
	"color":         "colors.foreground",
	"background":    "colors.background",
	"version":       "encoding.version",
	"ec":            "encoding.error-correction",
	"box-size":      "encoding.module-size",
	"border":        "encoding.border",
	"format":        "output.format",
	"quality":       "output.quality",
	"precision":     "output.precision",
	"style":         "output.vector-style",
	"size":          "output.size",
	"logo":          "output.logo",
	"logo-scale":    "output.logo-scale",
	"prefix":        "output.prefix",
	"suffix":        "output.suffix",
	"payload-names": "output.use-payload-filename",
	"output":        "output.dir",
	"zip":           "output.zip",
	"zip-name":      "output.zip-name",
	"cleanup":       "output.cleanup",
	"preset":        "presets.load",
	"save-preset":   "presets.save",
	"delete-preset": "presets.delete",
	"list-presets":  "presets.list",
	"history":       "history.list",
	"show-run":      "history.show",
	"metrics-file":  "metrics.textfile",
}

// NewFlagSet declares the command line flags. Their defaults are documentation
// only; effective defaults come from setDefaults.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "path to a config file (default ./config.yaml)")
	fs.Bool("debug", false, "enable debug logging")

	fs.String("mode", "sequential", "generation mode: sequential or tabular")
	fs.String("uses", "", "usage limit written into sequential payloads")
	fs.String("volume", "", "volume written into sequential payloads")
	fs.String("date", "", "expiry date DD.MM.YY")
	fs.String("security-code", "SECD", "security code")
	fs.String("suffix-code", "23FF45EE", "suffix code")
	fs.String("count", "1", "number of sequential codes")
	fs.String("input", "", "tabular input file (.csv, .txt, .tsv or .xlsx)")
	fs.String("column", "0", "payload column index")
	fs.Bool("skip-header", false, "skip the first input row")
	fs.String("encoding", "utf-8", "input charset: utf-8, windows-1251, iso-8859-1")
	fs.String("delimiter", "", "input delimiter, empty to detect")
	fs.String("sheet", "", "xlsx sheet name")

	fs.String("color", "#000000", "foreground color")
	fs.String("background", "#FFFFFF", "background color")
	fs.String("version", "auto", "QR version 1-40 or auto")
	fs.String("ec", "L", "error correction level L, M, Q or H")
	fs.String("box-size", "10", "module size 1-50")
	fs.String("border", "4", "quiet zone in modules 0-20")

	fs.String("format", "png", "output format png or svg")
	fs.String("quality", "85", "png quality 0-100")
	fs.String("precision", "2", "svg decimal precision 0-10")
	fs.String("style", "rect", "svg style rect or path")
	fs.Int("size", 0, "png size in pixels, 0 for natural size")
	fs.String("logo", "", "png logo image")
	fs.Float64("logo-scale", validator.DefaultLogoScale, "logo width relative to the code")
	fs.String("prefix", "", "filename prefix")
	fs.String("suffix", "", "filename suffix")
	fs.Bool("payload-names", true, "name files after their payload")
	fs.String("output", "output", "output directory")
	fs.Bool("zip", true, "create a zip archive")
	fs.String("zip-name", "", "archive name, empty for automatic")
	fs.Bool("cleanup", false, "delete generated files after archiving")

	fs.String("preset", "", "load a preset before applying flags")
	fs.String("save-preset", "", "save the effective settings as a preset")
	fs.String("delete-preset", "", "delete a preset and exit")
	fs.Bool("list-presets", false, "list presets and exit")
	fs.Int("history", 0, "list the latest N recorded runs and exit")
	fs.String("show-run", "", "show one recorded run and exit")
	fs.String("metrics-file", "", "write prometheus metrics to this file after the run")
	return fs
}

// Load parses args, .env, the config file and QRBATCH_* variables, in rising priority
// for env and flags. The returned viper instance is used to overlay presets.
func Load(args []string) (*Settings, *viper.Viper, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	fs := NewFlagSet("qrbatch")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, nil, err
		}
	}

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	settings, err := FromViper(v)
	if err != nil {
		return nil, nil, err
	}
	return settings, v, nil
}

// FromViper builds and structurally validates Settings.
func FromViper(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		Log: logger.Config{
			Debug:     v.GetBool("settings.debug"),
			TimeZone:  v.GetString("settings.timezone"),
			LogToFile: v.GetBool("settings.log-to-file"),
			LogsDir:   v.GetString("settings.logs-dir"),
			Prefix:    v.GetString("settings.log-prefix"),
		},
		Form: validator.Form{
			Mode:                 entity.ParseMode(v.GetString("generation.mode")),
			UsageLimit:           v.GetString("generation.usage-limit"),
			Volume:               v.GetString("generation.volume"),
			ExpiryDate:           v.GetString("generation.expiry-date"),
			SecurityCode:         v.GetString("generation.security-code"),
			SuffixCode:           v.GetString("generation.suffix-code"),
			Count:                v.GetString("generation.count"),
			Column:               v.GetString("generation.column"),
			SkipHeader:           v.GetBool("generation.skip-header"),
			Foreground:           v.GetString("colors.foreground"),
			Background:           v.GetString("colors.background"),
			Version:              v.GetString("encoding.version"),
			ErrorCorrection:      v.GetString("encoding.error-correction"),
			ModuleSize:           v.GetString("encoding.module-size"),
			Border:               v.GetString("encoding.border"),
			Format:               v.GetString("output.format"),
			Quality:              v.GetString("output.quality"),
			Precision:            v.GetString("output.precision"),
			VectorStyle:          v.GetString("output.vector-style"),
			RasterSize:           v.GetInt("output.size"),
			LogoPath:             v.GetString("output.logo"),
			LogoScale:            v.GetFloat64("output.logo-scale"),
			Prefix:               v.GetString("output.prefix"),
			Suffix:               v.GetString("output.suffix"),
			UsePayloadAsFilename: v.GetBool("output.use-payload-filename"),
		},
		Input: InputSettings{
			Path:      v.GetString("generation.input"),
			Encoding:  strings.ToLower(v.GetString("generation.encoding")),
			Delimiter: v.GetString("generation.delimiter"),
			Sheet:     v.GetString("generation.sheet"),
		},
		Output: OutputSettings{
			Dir:     v.GetString("output.dir"),
			Zip:     v.GetBool("output.zip"),
			ZipName: v.GetString("output.zip-name"),
			Cleanup: v.GetBool("output.cleanup"),
		},
		Presets: PresetSettings{
			Backend: strings.ToLower(v.GetString("presets.backend")),
			Dir:     v.GetString("presets.dir"),
			Load:    v.GetString("presets.load"),
			Save:    v.GetString("presets.save"),
			Delete:  v.GetString("presets.delete"),
			List:    v.GetBool("presets.list"),
		},
		Redis: RedisSettings{
			Host:     v.GetString("service.redis.host"),
			Port:     v.GetInt("service.redis.port"),
			Password: v.GetString("service.redis.password"),
			DB:       v.GetInt("service.redis.db"),
		},
		Database: DatabaseSettings{
			Enabled:  v.GetBool("service.database.enabled"),
			Host:     v.GetString("service.database.host"),
			Port:     v.GetInt("service.database.port"),
			User:     v.GetString("service.database.user"),
			Password: v.GetString("service.database.password"),
			Name:     v.GetString("service.database.name"),
			SSLMode:  v.GetString("service.database.sslmode"),
		},
		SMTP: SMTPSettings{
			Enabled:  v.GetBool("delivery.smtp.enabled"),
			Host:     v.GetString("delivery.smtp.host"),
			Port:     v.GetInt("delivery.smtp.port"),
			User:     v.GetString("delivery.smtp.user"),
			Password: v.GetString("delivery.smtp.password"),
			From:     v.GetString("delivery.smtp.from"),
			To:       v.GetStringSlice("delivery.smtp.to"),
			Domain:   v.GetString("delivery.smtp.domain"),
		},
		Telegram: TelegramSettings{
			Enabled: v.GetBool("delivery.telegram.enabled"),
			Token:   v.GetString("delivery.telegram.token"),
			ChatID:  v.GetInt64("delivery.telegram.chat-id"),
		},
		History: HistorySettings{
			List: v.GetInt("history.list"),
			Show: v.GetString("history.show"),
		},
		MetricsTextfile: v.GetString("metrics.textfile"),
	}
	s.Input.Tabular = s.Form.Mode == entity.ModeTabular

	if err := govalidator.New().Struct(s); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return s, nil
}

// presetKeys maps preset document keys onto config keys.
var presetKeys = map[string]string{
	"mode":                    "generation.mode",
	"valid_uses":              "generation.usage-limit",
	"volume":                  "generation.volume",
	"end_date":                "generation.expiry-date",
	"security_code":           "generation.security-code",
	"suffix_code":             "generation.suffix-code",
	"count":                   "generation.count",
	"input_column":            "generation.column",
	"skip_first_row":          "generation.skip-header",
	"delimiter":               "generation.delimiter",
	"color":                   "colors.foreground",
	"background_color":        "colors.background",
	"qr_version":              "encoding.version",
	"error_correction":        "encoding.error-correction",
	"box_size":                "encoding.module-size",
	"border":                  "encoding.border",
	"format":                  "output.format",
	"png_quality":             "output.quality",
	"svg_precision":           "output.precision",
	"vector_style":            "output.vector-style",
	"raster_size":             "output.size",
	"logo":                    "output.logo",
	"logo_scale":              "output.logo-scale",
	"filename_prefix":         "output.prefix",
	"filename_suffix":         "output.suffix",
	"use_payload_as_filename": "output.use-payload-filename",
}

// ApplyPreset installs a preset document as the defaults of v, so flags,
// environment and the config file still take precedence over it.
// Unknown document keys are ignored.
func ApplyPreset(v *viper.Viper, doc map[string]any) (*Settings, error) {
	for name, value := range doc {
		if key, ok := presetKeys[name]; ok {
			v.SetDefault(key, value)
		}
	}
	return FromViper(v)
}
