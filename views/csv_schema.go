package views

import (
	"path/filepath"

	"dataset-logger/models"
)

// Channel identifies one of the record files of a run directory.
// This file is the single source of truth for file locations and headers.
type Channel int

const (
	ChannelMotion Channel = iota
	ChannelStream
)

var channelNames = map[Channel]string{
	ChannelMotion: "motion",
	ChannelStream: "stream",
}

func (c Channel) String() string {
	if n, ok := channelNames[c]; ok {
		return n
	}
	return "unknown"
}

// channelPaths are relative to the run directory. The stream file lives in
// the left image folder, which the caller creates.
var channelPaths = map[Channel]string{
	ChannelMotion: "motion.txt",
	ChannelStream: filepath.Join("left", "stream.txt"),
}

// RelPath returns the channel's file path relative to the run directory.
func (c Channel) RelPath() string {
	return channelPaths[c]
}

// SeqColumn leads every header; the sequence number is channel state, not
// part of the record.
const SeqColumn = "seq"

// Header returns the column names written as the first line of the channel.
func (c Channel) Header() []string {
	var cols []string
	switch c {
	case ChannelMotion:
		cols = models.MotionData{}.Columns()
	case ChannelStream:
		cols = models.StreamData{}.Columns()
	}
	return append([]string{SeqColumn}, cols...)
}
