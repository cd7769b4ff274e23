package cmd

import (
	"errors"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"routegen.dev/pkg/routegen/internal/domain"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "routegen"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	manifestDirFlagName  = "manifest-dir"
	outFlagName          = "out"
	checkFlagName        = "check"
	strictFlagName       = "strict"
	debugFlagName        = "debug"
	parallelFlagName     = "parallel"
	maxFileSizeFlagName  = "max-file-size"
	noDoubleFlagName     = "no-double-module-segment"
	formatFlagName       = "format"
	noTUIFlagName        = "no-tui"
	verboseFlagName      = "verbose"
	logFileFlagName      = "log-file"
	debounceFlagName     = "debounce"
	cargoManifestDirEnv  = "CARGO_MANIFEST_DIR"
	manifestDirConfigKey = "manifest_dir"
	outputConfigKey      = "output"
	debugConfigKey       = "debug"

	patternsConfigKey        = "scan.patterns"
	parallelConfigKey        = "scan.parallel"
	maxFileSizeConfigKey     = "scan.max_file_size"
	strictConfigKey          = "scan.strict"
	doubleSegmentConfigKey   = "scan.double_module_segment"
	generatorCrateConfigKey  = "scan.generator_crate"
	frameworkConfigKey       = "emit.framework"
	markerNamespaceConfigKey = "emit.marker_namespace"
	watchDebounceConfigKey   = "watch.debounce"

	defaultStrict        = false
	defaultDebug         = false
	defaultDoubleSegment = true

	envPrefix = "ROUTEGEN"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".routegen.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var defaultParallel = runtime.NumCPU()

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Cargo sets CARGO_MANIFEST_DIR for build scripts; ROUTEGEN_MANIFEST_DIR still wins.
	_ = viper.BindEnv(manifestDirConfigKey, envPrefix+"_MANIFEST_DIR", cargoManifestDirEnv)

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(manifestDirConfigKey, "")
	viper.SetDefault(outputConfigKey, "")
	viper.SetDefault(debugConfigKey, defaultDebug)
	viper.SetDefault(patternsConfigKey, []string{domain.DefaultIncludePattern})
	viper.SetDefault(parallelConfigKey, defaultParallel)
	viper.SetDefault(maxFileSizeConfigKey, int64(domain.DefaultMaxFileSize))
	viper.SetDefault(strictConfigKey, defaultStrict)
	viper.SetDefault(doubleSegmentConfigKey, defaultDoubleSegment)
	viper.SetDefault(generatorCrateConfigKey, domain.DefaultGeneratorCrate)
	viper.SetDefault(frameworkConfigKey, domain.DefaultFramework)
	viper.SetDefault(markerNamespaceConfigKey, domain.DefaultMarkerNamespace)
	viper.SetDefault(watchDebounceConfigKey, defaultWatchDebounce.String())

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose || viper.GetBool(logVerboseKey) {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
