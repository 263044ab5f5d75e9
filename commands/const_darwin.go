package commands

const (
	_etc = "/usr/local/etc/com.github.classroom-sheets"
	_var = "/usr/local/var/com.github.classroom-sheets"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"

	BROWSER = "open"
)
