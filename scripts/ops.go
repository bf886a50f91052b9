// Copyright 2025 Zintix Labs
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

// ops 執行倉庫雜務：go run ./scripts <task>
//
//	test         go test ./... -cover -count=1，只印 ok/FAIL 行
//	test-detail  go test ./... -v -count=1
//	race         go test ./... -race -count=1
//	svr          go run ./cmd/svr -log-mode dev
package main

import (
	"bufio"
	"os"
	"os/exec"
	"strings"

	"github.com/fatih/color"
)

var (
	okc   = color.New(color.FgGreen)
	failc = color.New(color.FgRed)
	infoc = color.New(color.FgYellow)
)

func main() {
	if len(os.Args) < 2 {
		infoc.Println("usage: go run ./scripts [test|test-detail|race|svr]")
		os.Exit(1)
	}
	switch task := os.Args[1]; task {
	case "test":
		os.Exit(filtered("test", "./...", "-cover", "-count=1"))
	case "test-detail":
		os.Exit(passthrough("go", "test", "./...", "-v", "-count=1"))
	case "race":
		os.Exit(filtered("test", "./...", "-race", "-count=1"))
	case "svr":
		os.Exit(passthrough("go", "run", "./cmd/svr", "-log-mode", "dev"))
	default:
		infoc.Printf("unknown task: %s\n", task)
		os.Exit(1)
	}
}

// filtered 清除測試快取後以 args 執行 go，只保留各包結果
// 與編譯失敗訊息。
func filtered(args ...string) int {
	okc.Println("running go " + strings.Join(args, " "))
	if err := exec.Command("go", "clean", "-testcache").Run(); err != nil {
		failc.Println(err.Error())
	}
	cmd := exec.Command("go", args...)
	out, err := cmd.StdoutPipe()
	if err != nil {
		failc.Println(err.Error())
		return 1
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		failc.Println(err.Error())
		return 1
	}
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "ok"):
			okc.Println(line)
		case strings.HasPrefix(line, "FAIL"),
			strings.Contains(line, "build failed"),
			strings.Contains(line, "setup failed"):
			failc.Println(line)
		}
	}
	if err := cmd.Wait(); err != nil {
		failc.Println("\nfinished with errors")
		return 1
	}
	return 0
}

func passthrough(name string, args ...string) int {
	cmd := exec.Command(name, args...)
	cmd.Stdout, cmd.Stderr, cmd.Stdin = os.Stdout, os.Stderr, os.Stdin
	if err := cmd.Run(); err != nil {
		failc.Println(err.Error())
		return 1
	}
	return 0
}
