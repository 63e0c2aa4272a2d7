package internal

// Installation directories, overridable at build time like Version.
var (
	SysConfDir    = "/etc"
	LocalStateDir = "/var/lib"
)
