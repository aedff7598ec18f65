/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package config

const (
	KeyPrinterIP             = "printer_ip"
	KeyAccessCode            = "access_code"
	KeySerial                = "serial"
	KeyPrinterModel          = "printer_model"
	KeyMQTTPort              = "mqtt_port"
	KeyCameraPort            = "camera_port"
	KeyCameraCaptureInterval = "camera_capture_interval"
	KeySlicerPath            = "slicer_path"
	KeySlicerProfiles        = "slicer_profiles"
	KeyTempDir               = "temp"
	KeyDatabasePath          = "db"
	KeyListenAddress         = "listen_address"
	KeyEnableProfiling       = "enable_profiling"
	KeySMTPHost              = "smtp_host"
	KeySMTPPort              = "smtp_port"
	KeySMTPUser              = "smtp_user"
	KeySMTPPassword          = "smtp_password"
	KeyNotifyRecipient       = "notify_recipient"
)

const (
	DefaultPrinterModel    = "X1C"
	DefaultMQTTPort        = 8883
	DefaultCameraPort      = 322
	DefaultCaptureInterval = 5.0
	DefaultDatabaseFile    = "prints.db"
	DefaultListenAddress   = ":8920"
	DefaultSMTPPort        = 587
)
