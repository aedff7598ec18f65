/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"k8s.io/klog/v2"
)

// LoadConfig reads an optional YAML config file and binds the VIBE_*
// environment. Environment values override file values. Call once at
// startup; values are not re-read afterwards.
func LoadConfig(path string) error {
	viper.SetEnvPrefix("VIBE")
	viper.AutomaticEnv()
	// legacy name without the prefix
	if err := viper.BindEnv(KeyCameraCaptureInterval, "CAMERA_CAPTURE_INTERVAL"); err != nil {
		return err
	}
	if path == "" {
		return nil
	}
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			klog.Infof("config file %s not found, using environment only", path)
			return nil
		}
		return err
	}
	klog.Infof("loaded config file %s", viper.ConfigFileUsed())
	return nil
}

func getString(key, defaultValue string) string {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetString(key)
}

func getBool(key string, defaultValue bool) bool {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetBool(key)
}

func getInt(key string, defaultValue int) int {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetInt(key)
}

func getFloat(key string, defaultValue float64) float64 {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetFloat64(key)
}

// GetPrinterHost returns the printer IP or hostname.
func GetPrinterHost() string {
	return getString(KeyPrinterIP, "")
}

// GetAccessCode returns the printer LAN access code.
func GetAccessCode() string {
	return getString(KeyAccessCode, "")
}

// GetSerial returns the printer serial number used in MQTT topics.
func GetSerial() string {
	return getString(KeySerial, "")
}

func GetPrinterModel() string {
	return getString(KeyPrinterModel, DefaultPrinterModel)
}

func GetMQTTPort() int {
	return getInt(KeyMQTTPort, DefaultMQTTPort)
}

func GetCameraPort() int {
	return getInt(KeyCameraPort, DefaultCameraPort)
}

func GetCameraCaptureInterval() float64 {
	return getFloat(KeyCameraCaptureInterval, DefaultCaptureInterval)
}

// GetSlicerPath returns the slicer binary path, empty when not installed.
func GetSlicerPath() string {
	return getString(KeySlicerPath, "")
}

func GetSlicerProfilesDir() string {
	return getString(KeySlicerProfiles, "")
}

func GetTempDir() string {
	dir := getString(KeyTempDir, "")
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "vibe-print")
	}
	return dir
}

// GetDatabasePath returns the SQLite file path for the iteration store.
func GetDatabasePath() string {
	path := getString(KeyDatabasePath, "")
	if path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDatabaseFile
	}
	return filepath.Join(home, ".vibe-print", DefaultDatabaseFile)
}

func GetListenAddress() string {
	return getString(KeyListenAddress, DefaultListenAddress)
}

func GetEnableProfiling() bool {
	return getBool(KeyEnableProfiling, false)
}

func GetSMTPHost() string {
	return getString(KeySMTPHost, "")
}

func GetSMTPPort() int {
	return getInt(KeySMTPPort, DefaultSMTPPort)
}

func GetSMTPUser() string {
	return getString(KeySMTPUser, "")
}

func GetSMTPPassword() string {
	return getString(KeySMTPPassword, "")
}

func GetNotifyRecipient() string {
	return getString(KeyNotifyRecipient, "")
}
