package armature

// Version is the current release of the Armature library and CLI.
var Version = "0.3.0"
