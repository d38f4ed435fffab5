package bootstrap

// Package bootstrap provisions the Python virtual environment holding the
// external tools (yt-dlp, ffmpeg binding, mutagen, Pillow) that the
// download and tagging commands depend on. The sequence is strictly
// linear: runtime detection, venv creation, pip self-upgrade, one batch
// package install, completion message. There is no retry and no
// partial-install cleanup; the first failure aborts the run.
