package app

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-lootpity/pkg/config"
	"github.com/spf13/pflag"
)

// EnvPrefix 环境变量前缀，XDOORIA_LOG_LEVEL 覆盖 log.level
const EnvPrefix = "XDOORIA"

var (
	configPath string
	logPath    string
)

// LoadConfig 加载配置文件到 target
// 优先级：命令行显式参数 > 环境变量 > 配置文件 > 默认值
// 需要额外命令行参数的调用方应在调用前注册到 pflag.CommandLine
func LoadConfig(target any, opts ...config.Option) (*config.Manager, error) {
	execDir, err := GetExecDir()
	if err != nil {
		return nil, errors.Wrap(err, "resolve executable directory")
	}
	defaultLog := filepath.Join(execDir, "logs", "lootpity.log")

	registerFlags(filepath.Join(execDir, "config.yaml"), defaultLog)
	if !pflag.Parsed() {
		pflag.Parse()
	}

	path := resolveConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.Newf("config file not found at %s", path)
	}
	configPath = path

	defaults := config.WithDefaults(map[string]any{
		"log.output_path": defaultLog,
	})
	mgr := config.NewManager(append([]config.Option{defaults, config.WithEnvPrefix(EnvPrefix)}, opts...)...)
	if err := mgr.LoadFile(configPath); err != nil {
		return nil, err
	}

	// 显式指定的 --log.path 优先于一切来源
	if pflag.CommandLine.Changed("log.path") {
		mgr.Set("log.output_path", logPath)
	}
	if err := mgr.Unmarshal(target); err != nil {
		return nil, err
	}

	if mgr.GetBool("log.enable_file") {
		logPath = mgr.GetString("log.output_path")
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			return nil, errors.Wrap(err, "create log directory")
		}
	} else {
		logPath = ""
	}
	return mgr, nil
}

func registerFlags(defaultConfig, defaultLog string) {
	if pflag.Lookup("config") == nil {
		pflag.StringVarP(&configPath, "config", "c", defaultConfig, "path to config file")
	}
	if pflag.Lookup("log.path") == nil {
		pflag.StringVar(&logPath, "log.path", defaultLog, "output path for logs")
	}
}

// resolveConfigPath 显式 --config > XDOORIA_CONFIG > 可执行文件目录下的 config.yaml
func resolveConfigPath() string {
	if pflag.CommandLine.Changed("config") {
		return configPath
	}
	if env := os.Getenv(EnvPrefix + "_CONFIG"); env != "" {
		return env
	}
	return configPath
}

// GetExecDir 可执行文件所在目录（解析符号链接）
func GetExecDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	realPath, err := filepath.EvalSymlinks(execPath)
	if err != nil {
		return filepath.Dir(execPath), nil
	}
	return filepath.Dir(realPath), nil
}

// GetConfigPath 最终使用的配置文件路径
func GetConfigPath() string {
	return configPath
}

// GetLogPath 最终生效的日志文件路径，未启用文件日志时为空
func GetLogPath() string {
	return logPath
}
