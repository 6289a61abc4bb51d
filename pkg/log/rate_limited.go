// Copyright 2025 The hostipc Authors.
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

package log

import (
	"time"

	"golang.org/x/time/rate"
)

// rateLimitedLogger suppresses messages beyond the configured rate. Useful
// on retry loops where the same failure can repeat arbitrarily often.
type rateLimitedLogger struct {
	logger Logger
	limit  *rate.Limiter
}

func (l *rateLimitedLogger) Debugf(format string, v ...any) {
	if l.limit.Allow() {
		l.logger.Debugf(format, v...)
	}
}

func (l *rateLimitedLogger) Infof(format string, v ...any) {
	if l.limit.Allow() {
		l.logger.Infof(format, v...)
	}
}

func (l *rateLimitedLogger) Warningf(format string, v ...any) {
	if l.limit.Allow() {
		l.logger.Warningf(format, v...)
	}
}

func (l *rateLimitedLogger) IsLogging(level Level) bool {
	return l.logger.IsLogging(level)
}

// BasicRateLimitedLogger returns a Logger that logs to the global logger no
// more than once per the provided duration.
func BasicRateLimitedLogger(every time.Duration) Logger {
	return RateLimitedLogger(Log(), every)
}

// RateLimitedLogger returns a Logger that logs to the provided logger no
// more than once per the provided duration.
func RateLimitedLogger(logger Logger, every time.Duration) Logger {
	return &rateLimitedLogger{
		logger: logger,
		limit:  rate.NewLimiter(rate.Every(every), 1),
	}
}
