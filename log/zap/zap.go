// Copyright 2023 The EmberChain Authors
// This file is part of the EmberChain library.
//
// The EmberChain library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The EmberChain library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the EmberChain library. If not, see <http://www.gnu.org/licenses/>.

package zap

import (
	emclog "github.com/emberchain/emc/log"
	"go.uber.org/zap"
)

var _ emclog.Logger = (*Logger)(nil)

// Logger adapts a zap logger to the emc log interface.
type Logger struct {
	z *zap.SugaredLogger
}

func NewLogger(z *zap.Logger) *Logger {
	return &Logger{
		z: z.WithOptions(zap.AddCallerSkip(1)).Sugar(),
	}
}

func (l *Logger) New(ctx ...interface{}) emclog.Logger {
	return &Logger{z: l.z.With(render(ctx)...)}
}

func (l *Logger) Trace(msg string, ctx ...interface{}) {
	l.z.Debugw(msg, render(ctx)...)
}

func (l *Logger) Debug(msg string, ctx ...interface{}) {
	l.z.Debugw(msg, render(ctx)...)
}

func (l *Logger) Info(msg string, ctx ...interface{}) {
	l.z.Infow(msg, render(ctx)...)
}

func (l *Logger) Warn(msg string, ctx ...interface{}) {
	l.z.Warnw(msg, render(ctx)...)
}

func (l *Logger) Error(msg string, ctx ...interface{}) {
	l.z.Errorw(msg, render(ctx)...)
}

func (l *Logger) Crit(msg string, ctx ...interface{}) {
	l.z.Fatalw(msg, render(ctx)...)
}

// render shortens values that know how to print themselves for a terminal.
func render(ctx []interface{}) []interface{} {
	for i := 1; i < len(ctx); i += 2 {
		if s, ok := ctx[i].(emclog.TerminalStringer); ok {
			ctx[i] = s.TerminalString()
		}
	}
	return ctx
}
