package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider           string `toml:"provider"`
	Model              string `toml:"model"`
	TranscriptionModel string `toml:"transcription_model"`
	APIKey             string `toml:"api_key"`
	BaseURL            string `toml:"base_url"`
}

type TranscriptionConfig struct {
	MaxSize   int64  `toml:"max_size"`
	ChunkSize int64  `toml:"chunk_size"`
	FFmpeg    string `toml:"ffmpeg"`
	TempDir   string `toml:"temp_dir"`
}

type GraphConfig struct {
	Model        string  `toml:"model"`
	Temperature  float32 `toml:"temperature"`
	MaxTokens    int     `toml:"max_tokens"`
	SystemPrompt string  `toml:"system_prompt"`
}

type MarkdownConfig struct {
	Model        string  `toml:"model"`
	Temperature  float32 `toml:"temperature"`
	MaxTokens    int     `toml:"max_tokens"`
	ChunkTokens  int     `toml:"chunk_tokens"`
	SystemPrompt string  `toml:"system_prompt"`
}

type YouTubeConfig struct {
	YtDlp   string   `toml:"yt_dlp"`
	Sources []string `toml:"sources"`
	// Timeout in seconds for each HTTP request.
	Timeout int `toml:"timeout"`
}

type StoreConfig struct {
	Path string `toml:"path"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Config struct {
	LLM           LLMConfig           `toml:"llm"`
	Transcription TranscriptionConfig `toml:"transcription"`
	Graph         GraphConfig         `toml:"graph"`
	Markdown      MarkdownConfig      `toml:"markdown"`
	YouTube       YouTubeConfig       `toml:"youtube"`
	Store         StoreConfig         `toml:"store"`
	Memgraph      MemgraphConfig      `toml:"memgraph"`
	Server        ServerConfig        `toml:"server"`
	Log           LogConfig           `toml:"log"`
}

// Default returns a configuration that works without a config file.
// Prompts left empty fall back to the built-in ones of each component.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:           "openai",
			Model:              "gpt-4o-mini",
			TranscriptionModel: "whisper-1",
		},
		Transcription: TranscriptionConfig{
			MaxSize:   25 * 1024 * 1024,
			ChunkSize: 20 * 1024 * 1024,
			FFmpeg:    "ffmpeg",
		},
		Graph: GraphConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.5,
			MaxTokens:   16000,
		},
		Markdown: MarkdownConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.5,
			MaxTokens:   1500,
			ChunkTokens: 3000,
		},
		YouTube: YouTubeConfig{
			YtDlp:   "yt-dlp",
			Sources: []string{"yt-dlp", "timedtext", "page"},
			Timeout: 30,
		},
		Store:  StoreConfig{Path: "notify.db"},
		Server: ServerConfig{Port: "8080"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads a TOML file on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// ApplyEnv overrides cfg with environment variables when they are set.
func (c *Config) ApplyEnv() {
	setString(&c.LLM.Provider, "LLM_PROVIDER")
	setString(&c.LLM.Model, "LLM_MODEL")
	setString(&c.LLM.TranscriptionModel, "LLM_TRANSCRIPTION_MODEL")
	setString(&c.LLM.APIKey, "OPENAI_API_KEY")
	setString(&c.LLM.APIKey, "LLM_API_KEY")
	setString(&c.LLM.BaseURL, "LLM_BASE_URL")

	setString(&c.Graph.Model, "GRAPH_MODEL")
	setString(&c.Markdown.Model, "MARKDOWN_MODEL")

	setString(&c.Transcription.FFmpeg, "FFMPEG_PATH")
	setString(&c.Transcription.TempDir, "NOTIFY_TEMP_DIR")
	setInt64(&c.Transcription.MaxSize, "TRANSCRIPTION_MAX_SIZE")
	setInt64(&c.Transcription.ChunkSize, "TRANSCRIPTION_CHUNK_SIZE")

	setString(&c.YouTube.YtDlp, "YTDLP_PATH")
	if v := os.Getenv("YOUTUBE_SOURCES"); v != "" {
		c.YouTube.Sources = splitList(v)
	}

	setString(&c.Store.Path, "NOTIFY_DB")

	setString(&c.Memgraph.URI, "MEMGRAPH_URI")
	setString(&c.Memgraph.User, "MEMGRAPH_USER")
	setString(&c.Memgraph.Password, "MEMGRAPH_PASSWORD")

	setString(&c.Server.Port, "PORT")

	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt64(dst *int64, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
		*dst = n
	}
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
