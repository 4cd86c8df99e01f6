package config

// Library describes where the session library lives on disk.
type Library struct {
	RootPath string
}

// Separation carries the paths and limits for the separation pipeline.
type Separation struct {
	FFmpegBinPath   string
	SpleeterBinPath string
	WorkingDirPath  string
	TimeoutSeconds  int
}
