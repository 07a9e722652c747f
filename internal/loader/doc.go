// Package loader decodes heterogeneous audio and video containers into
// mono float PCM buffers at a fixed target sample rate. Audio-native
// formats (WAV, MP3, FLAC) are decoded in-process; video containers go
// through an ffmpeg subprocess that extracts the audio track.
package loader
