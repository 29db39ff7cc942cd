package media

import "strings"

// Codec is the closed set of codecs the pipeline knows how to name.
type Codec int

const (
	CodecUnknown Codec = iota
	CodecAAC
	CodecAC3
	CodecAdvancedSSA
	CodecAV1
	CodecDTS
	CodecDVBSubtitle
	CodecEAC3
	CodecFFV1
	CodecFLAC
	CodecH264
	CodecHDMV
	CodecHEVC
	CodecMP2
	CodecMP3
	CodecOpus
	CodecSubStationAlpha
	CodecSubtitleBitmap
	CodecSubtitleTextUTF8
	CodecTrueHD
	CodecVobSub
	CodecVorbis
	CodecVP8
	CodecVP9
	CodecWavPack
	CodecWebVTT
)

type codecInfo struct {
	name      string
	extension string
}

var codecTable = map[Codec]codecInfo{
	CodecUnknown:          {"unknown", "unknown"},
	CodecAAC:              {"aac", "aac"},
	CodecAC3:              {"ac3", "ac3"},
	CodecAdvancedSSA:      {"ass", "ass"},
	CodecAV1:              {"av1", "ivf"},
	CodecDTS:              {"dts", "dts"},
	CodecDVBSubtitle:      {"dvbsub", "srt"},
	CodecEAC3:             {"eac3", "eac3"},
	CodecFFV1:             {"ffv1", "ffv1"},
	CodecFLAC:             {"flac", "flac"},
	CodecH264:             {"h264", "h264"},
	CodecHDMV:             {"hdmv", "srt"},
	CodecHEVC:             {"hevc", "hevc"},
	CodecMP2:              {"mp2", "mp2"},
	CodecMP3:              {"mp3", "mp3"},
	CodecOpus:             {"opus", "opus"},
	CodecSubStationAlpha:  {"ssa", "ssa"},
	CodecSubtitleBitmap:   {"bmp", "bmp"},
	CodecSubtitleTextUTF8: {"srt", "srt"},
	CodecTrueHD:           {"truehd", "thd"},
	CodecVobSub:           {"vobsub", "sub"},
	CodecVorbis:           {"vorbis", "ogg"},
	CodecVP8:              {"vp8", "vp8"},
	CodecVP9:              {"vp9", "vp9"},
	CodecWavPack:          {"wavpack", "wv"},
	CodecWebVTT:           {"webvtt", "vtt"},
}

// codecIDs maps Matroska codec identifiers to codecs.
var codecIDs = map[string]Codec{
	"V_MPEG4/ISO/SP":     CodecH264,
	"V_MPEG4/ISO/ASP":    CodecH264,
	"V_MPEG4/ISO/AP":     CodecH264,
	"V_MPEG4/MS/V3":      CodecH264,
	"V_MPEG4/ISO/AVC":    CodecH264,
	"V_MPEGH/ISO/HEVC":   CodecHEVC,
	"V_AV1":              CodecAV1,
	"V_VP8":              CodecVP8,
	"V_VP9":              CodecVP9,
	"V_FFV1":             CodecFFV1,
	"A_MPEG/L1":          CodecMP2,
	"A_MPEG/L2":          CodecMP2,
	"A_MPEG/L3":          CodecMP3,
	"A_AC3":              CodecAC3,
	"A_AC3/BSID9":        CodecAC3,
	"A_AC3/BSID10":       CodecAC3,
	"A_EAC3":             CodecEAC3,
	"A_DTS":              CodecDTS,
	"A_DTS/EXPRESS":      CodecDTS,
	"A_DTS/LOSSLESS":     CodecDTS,
	"A_TRUEHD":           CodecTrueHD,
	"A_VORBIS":           CodecVorbis,
	"A_OPUS":             CodecOpus,
	"A_FLAC":             CodecFLAC,
	"A_WAVPACK4":         CodecWavPack,
	"A_AAC":              CodecAAC,
	"A_AAC-1":            CodecAAC,
	"A_AAC-2":            CodecAAC,
	"A_AAC/MPEG2/MAIN":   CodecAAC,
	"A_AAC/MPEG2/LC":     CodecAAC,
	"A_AAC/MPEG2/LC/SBR": CodecAAC,
	"A_AAC/MPEG2/SSR":    CodecAAC,
	"A_AAC/MPEG4/MAIN":   CodecAAC,
	"A_AAC/MPEG4/LC":     CodecAAC,
	"A_AAC/MPEG4/LC/SBR": CodecAAC,
	"A_AAC/MPEG4/SSR":    CodecAAC,
	"A_AAC/MPEG4/LTP":    CodecAAC,
	"S_TEXT/UTF8":        CodecSubtitleTextUTF8,
	"S_TEXT/SSA":         CodecSubStationAlpha,
	"S_TEXT/ASS":         CodecAdvancedSSA,
	"S_TEXT/WEBVTT":      CodecWebVTT,
	"S_IMAGE/BMP":        CodecSubtitleBitmap,
	"S_DVBSUB":           CodecDVBSubtitle,
	"S_VOBSUB":           CodecVobSub,
	"S_HDMV/PGS":         CodecHDMV,
	"S_HDMV/TEXTST":      CodecHDMV,
}

// ParseCodecID maps a container codec identifier to a Codec. The second
// return value is false when the identifier is not recognised, in which case
// CodecUnknown is returned.
func ParseCodecID(id string) (Codec, bool) {
	codec, ok := codecIDs[strings.ToUpper(strings.TrimSpace(id))]
	if !ok {
		return CodecUnknown, false
	}
	return codec, true
}

func (c Codec) String() string {
	if info, ok := codecTable[c]; ok {
		return info.name
	}
	return codecTable[CodecUnknown].name
}

// Extension returns the file extension (without dot) used when the track is
// written to disk.
func (c Codec) Extension() string {
	if info, ok := codecTable[c]; ok {
		return info.extension
	}
	return codecTable[CodecUnknown].extension
}
