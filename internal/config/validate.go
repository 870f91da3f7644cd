package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Recognized acquisition.mode values.
const (
	AcquisitionModeRemote  = "remote"
	AcquisitionModeLocal   = "local-copy"
	AcquisitionModeFixture = "fixed-fixture"
)

// Recognized analyzer.mode values.
const (
	AnalyzerModeRemote = "remote"
	AnalyzerModeFixed  = "fixed"
)

// AcquisitionModes lists the recognized acquisition.mode values.
var AcquisitionModes = []string{AcquisitionModeRemote, AcquisitionModeLocal, AcquisitionModeFixture}

// AnalyzerModes lists the recognized analyzer.mode values.
var AnalyzerModes = []string{AnalyzerModeRemote, AnalyzerModeFixed}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateQueue(); err != nil {
		return err
	}
	if err := c.validateAcquisition(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateAnalyzer(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.WorkDir == "" {
		return errors.New("paths.work_dir must be set")
	}
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateQueue() error {
	if c.Queue.RedisAddr == "" {
		return errors.New("queue.redis_addr must be set")
	}
	if c.Queue.Topic == "" {
		return errors.New("queue.topic must be set")
	}
	if c.Queue.Workers < 1 {
		return errors.New("queue.workers must be at least 1")
	}
	if err := ensurePositiveMap(map[string]int{
		"queue.dequeue_block_seconds": c.Queue.DequeueBlockSeconds,
		"queue.error_retry_seconds":   c.Queue.ErrorRetrySeconds,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAcquisition() error {
	if !contains(AcquisitionModes, c.Acquisition.Mode) {
		return fmt.Errorf("acquisition.mode must be one of %v, got %q", AcquisitionModes, c.Acquisition.Mode)
	}
	if c.Acquisition.Mode == AcquisitionModeLocal && c.Acquisition.LocalSourcePath == "" {
		return errors.New("acquisition.local_source_path must be set when acquisition.mode is local-copy")
	}
	if c.Acquisition.FixtureDurationSeconds < 1 {
		return errors.New("acquisition.fixture_duration_seconds must be at least 1")
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.SampleRate < 8000 {
		return fmt.Errorf("audio.sample_rate %d is below the minimum of 8000", c.Audio.SampleRate)
	}
	return nil
}

func (c *Config) validateAnalyzer() error {
	if !contains(AnalyzerModes, c.Analyzer.Mode) {
		return fmt.Errorf("analyzer.mode must be one of %v, got %q", AnalyzerModes, c.Analyzer.Mode)
	}
	if c.Analyzer.Mode == AnalyzerModeRemote {
		if c.Analyzer.Endpoint == "" {
			return errors.New("analyzer.endpoint must be set when analyzer.mode is remote")
		}
		parsed, err := url.Parse(c.Analyzer.Endpoint)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("analyzer.endpoint %q is not a valid URL", c.Analyzer.Endpoint)
		}
	}
	if c.Analyzer.TimeoutSeconds < 1 {
		return errors.New("analyzer.timeout_seconds must be at least 1")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value < 1 {
			return fmt.Errorf("%s must be at least 1", key)
		}
	}
	return nil
}

func contains(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}
