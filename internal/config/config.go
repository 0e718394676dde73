package config

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type Config interface {
	Init(cmd *cobra.Command) error
	Set()
}

type Server struct {
	Bind    string
	SSLCert string
	SSLKey  string
	Proxy   bool
	PProf   bool
	// RateLimit is requests per minute per client IP, 0 disables limiting.
	RateLimit int
}

func (Server) Init(cmd *cobra.Command) error {
	cmd.PersistentFlags().String("bind", "127.0.0.1:8080", "address/port/socket to serve http")
	if err := viper.BindPFlag("bind", cmd.PersistentFlags().Lookup("bind")); err != nil {
		return err
	}

	cmd.PersistentFlags().String("sslcert", "", "path to the SSL cert")
	if err := viper.BindPFlag("sslcert", cmd.PersistentFlags().Lookup("sslcert")); err != nil {
		return err
	}

	cmd.PersistentFlags().String("sslkey", "", "path to the SSL key")
	if err := viper.BindPFlag("sslkey", cmd.PersistentFlags().Lookup("sslkey")); err != nil {
		return err
	}

	cmd.PersistentFlags().Bool("proxy", false, "allow reverse proxies")
	if err := viper.BindPFlag("proxy", cmd.PersistentFlags().Lookup("proxy")); err != nil {
		return err
	}

	cmd.PersistentFlags().Bool("pprof", false, "enable pprof endpoint available at /debug/pprof")
	if err := viper.BindPFlag("pprof", cmd.PersistentFlags().Lookup("pprof")); err != nil {
		return err
	}

	cmd.PersistentFlags().Int("rate-limit", 0, "requests per minute per client IP, 0 disables")
	if err := viper.BindPFlag("rate-limit", cmd.PersistentFlags().Lookup("rate-limit")); err != nil {
		return err
	}

	return nil
}

func (s *Server) Set() {
	s.Bind = viper.GetString("bind")
	s.SSLCert = viper.GetString("sslcert")
	s.SSLKey = viper.GetString("sslkey")
	s.Proxy = viper.GetBool("proxy")
	s.PProf = viper.GetBool("pprof")
	s.RateLimit = viper.GetInt("rate-limit")
}

type HLS struct {
	SegmentDuration  int
	CacheDir         string
	TranscodeTimeout time.Duration
	FFmpegBinary     string
	CatalogFile      string
}

func (HLS) Init(cmd *cobra.Command) error {
	cmd.PersistentFlags().Int("hls.segment-duration", 6, "segment duration in seconds")
	if err := viper.BindPFlag("hls.segment-duration", cmd.PersistentFlags().Lookup("hls.segment-duration")); err != nil {
		return err
	}

	cmd.PersistentFlags().String("hls.cache-dir", "", "segment cache root directory")
	if err := viper.BindPFlag("hls.cache-dir", cmd.PersistentFlags().Lookup("hls.cache-dir")); err != nil {
		return err
	}

	cmd.PersistentFlags().Duration("hls.transcode-timeout", 30*time.Second, "per-segment transcode deadline")
	if err := viper.BindPFlag("hls.transcode-timeout", cmd.PersistentFlags().Lookup("hls.transcode-timeout")); err != nil {
		return err
	}

	cmd.PersistentFlags().String("hls.ffmpeg-binary", "ffmpeg", "path to ffmpeg binary")
	if err := viper.BindPFlag("hls.ffmpeg-binary", cmd.PersistentFlags().Lookup("hls.ffmpeg-binary")); err != nil {
		return err
	}

	cmd.PersistentFlags().String("catalog", "catalog.yaml", "path to the content catalog file")
	if err := viper.BindPFlag("catalog", cmd.PersistentFlags().Lookup("catalog")); err != nil {
		return err
	}

	return nil
}

func (h *HLS) Set() {
	h.SegmentDuration = viper.GetInt("hls.segment-duration")
	h.CacheDir = viper.GetString("hls.cache-dir")
	h.TranscodeTimeout = viper.GetDuration("hls.transcode-timeout")
	h.FFmpegBinary = viper.GetString("hls.ffmpeg-binary")
	h.CatalogFile = viper.GetString("catalog")

	if h.SegmentDuration <= 0 {
		panic("hls.segment-duration must be positive")
	}

	if h.CacheDir == "" {
		var err error
		h.CacheDir, err = os.MkdirTemp(os.TempDir(), "hlspack-cache")
		if err != nil {
			panic(err)
		}
	} else {
		if err := os.MkdirAll(h.CacheDir, 0755); err != nil {
			panic(err)
		}
	}

	if h.TranscodeTimeout <= 0 {
		h.TranscodeTimeout = 30 * time.Second
	}
}
