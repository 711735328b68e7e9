// Package config содержит функции для загрузки конфигурации приложения
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath - путь к файлу конфигурации по умолчанию
const DefaultPath = "~/.stereo"

// VisualizerConfig - параметры визуализатора
type VisualizerConfig struct {
	Particles  int    `yaml:"particles"`
	Projection string `yaml:"projection"`
	Color      string `yaml:"color"`
}

// Config структура для хранения конфигурации приложения
type Config struct {
	MusicDir   string           `yaml:"music_dir"`
	DropDir    string           `yaml:"drop_dir"`
	Volume     float64          `yaml:"volume"`
	FPS        int              `yaml:"fps"`
	SampleRate int              `yaml:"sample_rate"`
	LogFile    string           `yaml:"log_file"`
	LogLevel   string           `yaml:"log_level"`
	Visualizer VisualizerConfig `yaml:"visualizer"`

	AwsAccessKey string `yaml:"aws_access_key"`
	AwsSecretKey string `yaml:"aws_secret_key"`
	AwsRegion    string `yaml:"aws_region"`
	AwsEndpoint  string `yaml:"aws_endpoint"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		MusicDir:   "~/Music",
		Volume:     1.0,
		FPS:        30,
		SampleRate: 44100,
		LogLevel:   "info",
		Visualizer: VisualizerConfig{
			Particles:  128,
			Projection: "logarithmic",
			Color:      "rgb",
		},
	}
}

// LoadConfig загружает конфигурацию приложения из указанного файла.
// Отсутствующий файл не является ошибкой: используются значения по умолчанию.
func LoadConfig(filePath string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := expandHome(filePath, home)

	config := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Файла нет - работаем на значениях по умолчанию
	case err != nil:
		return nil, fmt.Errorf("ошибка чтения конфигурации %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("ошибка разбора конфигурации %s: %w", path, err)
		}
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	// Раскрываем тильду в путях
	config.MusicDir = expandHome(config.MusicDir, home)
	config.DropDir = expandHome(config.DropDir, home)
	config.LogFile = expandHome(config.LogFile, home)

	return config, nil
}

// validate проверяет числовые параметры и подставляет значения по умолчанию
func (c *Config) validate() error {
	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("громкость должна быть в диапазоне 0..1, получено %v", c.Volume)
	}
	if c.FPS <= 0 || c.FPS > 120 {
		return fmt.Errorf("частота кадров должна быть в диапазоне 1..120, получено %d", c.FPS)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("некорректная частота дискретизации: %d", c.SampleRate)
	}
	if c.Visualizer.Particles <= 0 {
		return fmt.Errorf("число частиц должно быть положительным, получено %d", c.Visualizer.Particles)
	}
	if c.MusicDir == "" {
		c.MusicDir = "~/Music"
	}
	return nil
}

func expandHome(path, home string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		return strings.Replace(path, "~", home, 1)
	}
	return path
}
