// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package warp

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"github.com/klauspost/cpuid"
)

// Singleton log writer. Writes to stdout, and optionally to a file.
// Does not add prefixes, or force newlines.

var logFile *bufio.Writer
var logFileOS *os.File

// LogAlsoToFile enables mirroring log output to fileName.
func LogAlsoToFile(fileName string) (err error) {
	if logFile != nil {
		if err = logFile.Flush(); err != nil {
			return err
		}
		if err = logFileOS.Close(); err != nil {
			return err
		}
	}
	logFileOS, err = os.OpenFile(fileName, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0666)
	if err != nil {
		return err
	}
	logFile = bufio.NewWriter(logFileOS)
	return nil
}

func LogPrintf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
	if logFile != nil {
		fmt.Fprintf(logFile, format, args...)
		logFile.Flush()
	}
}

var cpuFeaturesOnce sync.Once

// logCPUFeatures reports the CPU feature summary once per process, purely
// informational — the portable resampling core never branches on it.
// Callers slicing an overall warp into chunks may use it to choose chunk
// sizes; the kernel itself does not consult it.
func logCPUFeatures() {
	cpuFeaturesOnce.Do(func() {
		LogPrintf("warp: cpu=%s avx2=%v avx512f=%v sse4.2=%v\n",
			cpuid.CPU.BrandName, cpuid.CPU.AVX2(), cpuid.CPU.AVX512F(), cpuid.CPU.SSE42())
	})
}
