package config

// ConfigInitError reports a failure to set up the config file under
// ~/.scribe before any command runs. Callers treat it as fatal: without a
// readable config there is no workspace to operate on.
type ConfigInitError struct {
	msg string
}

func (e *ConfigInitError) Error() string {
	return e.msg
}
