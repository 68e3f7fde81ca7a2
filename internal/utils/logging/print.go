package logging

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"grabarr/internal/domain/consts"

	"github.com/rs/zerolog"
)

// E prints and logs an error message with the calling function and line.
func E(format string, args ...interface{}) string {
	mu.Lock()
	defer mu.Unlock()

	pc, file, line, _ := runtime.Caller(1)
	file = filepath.Base(file)
	funcName := filepath.Base(runtime.FuncForPC(pc).Name())

	var b strings.Builder
	b.WriteString(consts.RedError)
	writef(&b, format, args...)
	writeCallerTag(&b, funcName, file, line)

	msg := b.String()
	fmt.Print(msg)
	writeLog(zerolog.ErrorLevel, msg)
	return msg
}

// W prints and logs a warning message.
func W(format string, args ...interface{}) string {
	mu.Lock()
	defer mu.Unlock()

	var b strings.Builder
	b.WriteString(consts.YellowWarn)
	writef(&b, format, args...)
	b.WriteString("\n")

	msg := b.String()
	fmt.Print(msg)
	writeLog(zerolog.WarnLevel, msg)
	return msg
}

// S prints and logs a success message.
func S(format string, args ...interface{}) string {
	mu.Lock()
	defer mu.Unlock()

	var b strings.Builder
	b.WriteString(consts.GreenSuccess)
	writef(&b, format, args...)
	b.WriteString("\n")

	msg := b.String()
	fmt.Print(msg)
	writeLog(zerolog.InfoLevel, msg)
	return msg
}

// I prints and logs an informational message.
func I(format string, args ...interface{}) string {
	mu.Lock()
	defer mu.Unlock()

	var b strings.Builder
	b.WriteString(consts.BlueInfo)
	writef(&b, format, args...)
	b.WriteString("\n")

	msg := b.String()
	fmt.Print(msg)
	writeLog(zerolog.InfoLevel, msg)
	return msg
}

// D prints and logs a debug message when l is within the configured level.
func D(l int, format string, args ...interface{}) string {
	if l > Level {
		return ""
	}

	mu.Lock()
	defer mu.Unlock()

	pc, file, line, _ := runtime.Caller(1)
	file = filepath.Base(file)
	funcName := filepath.Base(runtime.FuncForPC(pc).Name())

	var b strings.Builder
	b.WriteString(consts.YellowDebug)
	writef(&b, format, args...)
	writeCallerTag(&b, funcName, file, line)

	msg := b.String()
	fmt.Print(msg)
	writeLog(zerolog.DebugLevel, msg)
	return msg
}

func writef(b *strings.Builder, format string, args ...interface{}) {
	if len(args) != 0 {
		fmt.Fprintf(b, format, args...)
	} else {
		b.WriteString(format)
	}
}

func writeCallerTag(b *strings.Builder, funcName, file string, line int) {
	b.WriteRune('[')
	b.WriteString(consts.ColorBlue)
	b.WriteString("Function: ")
	b.WriteString(consts.ColorReset)
	b.WriteString(funcName)
	b.WriteString(" - ")
	b.WriteString(consts.ColorBlue)
	b.WriteString("File: ")
	b.WriteString(consts.ColorReset)
	b.WriteString(file)
	b.WriteString(" : ")
	b.WriteString(consts.ColorBlue)
	b.WriteString("Line: ")
	b.WriteString(consts.ColorReset)
	b.WriteString(strconv.Itoa(line))
	b.WriteString("]\n")
}
