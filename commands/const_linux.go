package commands

const (
	_etc = "/usr/local/etc/classroom-sheets"
	_var = "/usr/local/var/classroom-sheets"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"

	BROWSER = "xdg-open"
)
