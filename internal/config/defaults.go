package config

const (
	defaultUploadDir       = "~/.local/share/thanos/uploads"
	defaultOrganizedDir    = "~/.local/share/thanos/organized"
	defaultDataDir         = "~/.local/share/thanos"
	defaultLogDir          = "~/.local/share/thanos/logs"
	defaultAPIBind         = "127.0.0.1:8642"
	defaultLLMModel        = "gpt-4o-mini"
	defaultLLMTimeout      = 60
	defaultLLMMaxTokens    = 500
	defaultOnFileError     = "skip"
	defaultChatMaxTokens   = 500
	defaultChatTemperature = 0.7
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			UploadDir:    defaultUploadDir,
			OrganizedDir: defaultOrganizedDir,
			DataDir:      defaultDataDir,
			LogDir:       defaultLogDir,
			APIBind:      defaultAPIBind,
		},
		LLM: LLM{
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeout,
			MaxTokens:      defaultLLMMaxTokens,
		},
		Organize: Organize{
			OnFileError: defaultOnFileError,
		},
		Chat: Chat{
			Enabled:     true,
			MaxTokens:   defaultChatMaxTokens,
			Temperature: defaultChatTemperature,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
