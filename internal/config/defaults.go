package config

const (
	defaultConfigPath         = "~/.config/filmdesk/config.toml"
	defaultAPIBaseURL         = "https://arabfilmsserver.onrender.com/api"
	defaultAPITimeoutSeconds  = 30
	defaultRequestsPerSecond  = 5
	defaultStateDir           = "~/.local/share/filmdesk"
	defaultSessionMaxAgeHours = 24
	defaultUploadMaxBytes     = 5 * 1024 * 1024
	defaultUploadParallelism  = 4
	defaultLatestLimit        = 10
	defaultLanguage           = "ar"
	defaultNotifyTimeout      = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultLogDir             = "~/.local/share/filmdesk/logs"
	defaultLogRetentionDays   = 30
	defaultResetOnEditFailure = false
	defaultNotifyOnCreated    = true
	defaultNotifyOnUpdated    = true
	defaultNotifyOnErrors     = true
)

// DefaultPrivilegedRoles are the user roles the session gate admits without a
// fresh sign-in.
func DefaultPrivilegedRoles() []string {
	return []string{"admin", "publisher"}
}

// DefaultAllowedTypes are the MIME types accepted for poster and portrait images.
func DefaultAllowedTypes() []string {
	return []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		API: API{
			BaseURL:           defaultAPIBaseURL,
			TimeoutSeconds:    defaultAPITimeoutSeconds,
			RequestsPerSecond: defaultRequestsPerSecond,
		},
		Session: Session{
			StateDir:        defaultStateDir,
			MaxAgeHours:     defaultSessionMaxAgeHours,
			PrivilegedRoles: DefaultPrivilegedRoles(),
		},
		Upload: Upload{
			MaxBytes:     defaultUploadMaxBytes,
			AllowedTypes: DefaultAllowedTypes(),
			Parallelism:  defaultUploadParallelism,
		},
		Form: Form{
			ResetOnEditFailure: defaultResetOnEditFailure,
		},
		Browse: Browse{
			LatestLimit: defaultLatestLimit,
		},
		Locale: Locale{
			Language: defaultLanguage,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Created:        defaultNotifyOnCreated,
			Updated:        defaultNotifyOnUpdated,
			Errors:         defaultNotifyOnErrors,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			Dir:           defaultLogDir,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
