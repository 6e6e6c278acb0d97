package gobigquery

import (
	"errors"
	"os"
	path "path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/BurntSushi/toml"
)

// Config holds the options of decoders, insert requests and logging.
type Config struct {
	// Location is the location decoded TIMESTAMPs are returned in.
	Location *time.Location
	// UseInt64Timestamp reads integer TIMESTAMP cells as microseconds since the epoch.
	UseInt64Timestamp bool
	// DecodeConcurrency bounds the number of rows of a page decoded at once.
	DecodeConcurrency int
	InsertIDMode      InsertIDMode
	// SkipInvalidRows and IgnoreUnknownValues are passed through to insertAll requests.
	SkipInvalidRows     bool
	IgnoreUnknownValues bool
	// LogLevel is applied by ApplyLogLevel. Empty leaves the level alone.
	LogLevel string
}

// DefaultConfig returns the configuration used when nothing is loaded.
func DefaultConfig() *Config {
	return &Config{
		Location:          time.UTC,
		DecodeConcurrency: defaultDecodeConcurrency,
		InsertIDMode:      InsertIDContent,
	}
}

// NewDecoder returns a Decoder configured by c. opts are applied after the configuration.
func (c *Config) NewDecoder(opts ...DecoderOption) *Decoder {
	base := []DecoderOption{
		WithLocation(c.Location),
		WithInt64Timestamp(c.UseInt64Timestamp),
		WithConcurrency(c.DecodeConcurrency),
	}
	return NewDecoder(append(base, opts...)...)
}

// InsertOptions returns the insertAll options of c.
func (c *Config) InsertOptions() InsertOptions {
	return InsertOptions{
		IDMode:              c.InsertIDMode,
		SkipInvalidRows:     c.SkipInvalidRows,
		IgnoreUnknownValues: c.IgnoreUnknownValues,
	}
}

// ApplyLogLevel sets the level of the library logger to c.LogLevel.
func (c *Config) ApplyLogLevel() error {
	if c.LogLevel == "" {
		return nil
	}
	return SetLogLevel(c.LogLevel)
}

// LoadConfig returns the configuration loaded from the toml file.
// By default, GOBIGQUERY_HOME (the directory of config.toml) is os.home/.gobigquery
// and GOBIGQUERY_PROFILE (the section of the file) is 'default'.
func LoadConfig() (*Config, error) {
	configDir, err := getConfigDir(os.Getenv("GOBIGQUERY_HOME"))
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path.Join(configDir, "config.toml"), getProfileName(os.Getenv("GOBIGQUERY_PROFILE")))
}

// LoadConfigFile returns the configuration of profile loaded from the toml file at filePath.
// Keys the file does not set keep their DefaultConfig values.
func LoadConfigFile(filePath, profile string) (*Config, error) {
	tomlInfo := make(map[string]interface{})
	if _, err := toml.DecodeFile(filePath, &tomlInfo); err != nil {
		return nil, err
	}
	profile = getProfileName(profile)
	section, ok := tomlInfo[profile].(map[string]interface{})
	if !ok {
		return nil, &ConversionError{
			Number:      ErrCodeFailedToFindProfile,
			Message:     errMsgFailedToFindProfile,
			MessageArgs: []interface{}{profile, filePath},
		}
	}
	cfg := DefaultConfig()
	if err := parseToml(cfg, section); err != nil {
		return nil, err
	}
	logger.Debugf("loaded profile %q from %v", profile, filePath)
	return cfg, nil
}

func parseToml(cfg *Config, profile map[string]interface{}) error {
	var v string
	var parsingErr error
	err := &ConversionError{
		Number:  ErrCodeTomlFileParsingFailed,
		Message: errMsgFailedToParseToml,
	}
	for key, value := range profile {
		switch strings.ToLower(key) {
		case "location", "timestamp_location":
			if v, parsingErr = parseString(value); parsingErr == nil {
				cfg.Location, parsingErr = time.LoadLocation(v)
			}
		case "use_int64_timestamp":
			cfg.UseInt64Timestamp, parsingErr = parseBool(value)
		case "decode_concurrency":
			cfg.DecodeConcurrency, parsingErr = parseInt(value)
			if parsingErr == nil && cfg.DecodeConcurrency < 1 {
				parsingErr = errors.New("must be at least 1")
			}
		case "insert_id_mode":
			if v, parsingErr = parseString(value); parsingErr == nil {
				cfg.InsertIDMode, parsingErr = ParseInsertIDMode(v)
			}
		case "skip_invalid_rows":
			cfg.SkipInvalidRows, parsingErr = parseBool(value)
		case "ignore_unknown_values":
			cfg.IgnoreUnknownValues, parsingErr = parseBool(value)
		case "log_level":
			cfg.LogLevel, parsingErr = parseString(value)
		default:
			logger.Warnf("unknown config key %q ignored", key)
		}
		if parsingErr != nil {
			err.MessageArgs = []interface{}{key, value}
			err.Err = parsingErr
			return err
		}
	}
	return nil
}

func parseInt(i interface{}) (int, error) {
	switch v := i.(type) {
	case int64:
		return int(v), nil
	case int:
		return v, nil
	case string:
		return strconv.Atoi(v)
	}
	return 0, errors.New("failed to parse the value to integer")
}

func parseBool(i interface{}) (bool, error) {
	switch v := i.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, errors.New("failed to parse the value to boolean")
		}
		return b, nil
	}
	return false, errors.New("failed to parse the value to boolean")
}

func parseString(i interface{}) (string, error) {
	v, ok := i.(string)
	if !ok {
		return "", errors.New("failed to convert the value to string")
	}
	return v, nil
}

func getConfigDir(dir string) (string, error) {
	if len(dir) == 0 {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = path.Join(homeDir, ".gobigquery")
	}
	return path.Abs(dir)
}

func getProfileName(profile string) string {
	if len(profile) != 0 {
		return profile
	}
	return "default"
}
