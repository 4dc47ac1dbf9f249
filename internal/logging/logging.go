// Copyright 2023 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logging configures the wallet's structured logger.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xmrcore/walletcore/internal/config"
)

var globalLogger *zap.SugaredLogger

// Configure builds the global logger from the loaded config's logging
// level. Safe to call more than once; the most recent call wins.
func Configure() {
	cfg := config.GetConfig()

	var level zapcore.Level
	switch cfg.Logging.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder

	logger, err := zapCfg.Build()
	if err != nil {
		// zap's own production config never fails to build; a failure
		// here means the process environment is broken enough that a
		// plain no-op fallback is the only option.
		fmt.Printf("logging: failed to build logger, falling back to no-op: %s\n", err)
		globalLogger = zap.NewNop().Sugar()
		return
	}
	globalLogger = logger.Sugar().With("component", "walletcore")
}

// GetLogger returns the global logger, configuring it from defaults if
// this is the first call.
func GetLogger() *zap.SugaredLogger {
	if globalLogger == nil {
		Configure()
	}
	return globalLogger
}
