package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Expect   int    `json:"expect"`
	Critical bool   `json:"critical"`
}

type config struct {
	Targets []target `json:"targets"`
}

type check struct {
	Target   target
	Status   int
	Pass     bool
	Error    error
	Duration time.Duration
}

func main() {
	var (
		baseURL     string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&baseURL, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "smoke", "targets.json"), "Path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var (
		checks   []check
		breaking int
		warnings int
	)

	for _, t := range targets {
		c := runCheck(client, baseURL, t)
		if !c.Pass {
			if t.Critical {
				breaking++
			} else {
				warnings++
			}
		}
		checks = append(checks, c)
	}

	printReport(checks)

	fmt.Printf("Critical failures: %d, Warnings: %d\n", breaking, warnings)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return cfg.Targets, nil
}

func runCheck(client *http.Client, base string, tgt target) check {
	c := check{Target: tgt}

	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	url := strings.TrimRight(base, "/") + path

	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		c.Error = err
		return c
	}
	start := time.Now()
	resp, err := client.Do(req)
	c.Duration = time.Since(start)
	if err != nil {
		c.Error = fmt.Errorf("request failed: %w", err)
		return c
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	c.Status = resp.StatusCode
	expect := tgt.Expect
	if expect == 0 {
		expect = http.StatusOK
	}
	c.Pass = c.Status == expect
	return c
}

func printReport(checks []check) {
	for _, c := range checks {
		label := "ok"
		if !c.Pass {
			label = "FAIL"
			if !c.Target.Critical {
				label = "warn"
			}
		}
		if c.Error != nil {
			fmt.Printf("[%s] %s %s: %v\n", label, c.Target.Method, c.Target.Path, c.Error)
			continue
		}
		fmt.Printf("[%s] %s %s: status=%d took=%s\n", label, c.Target.Method, c.Target.Path, c.Status, c.Duration.Round(time.Millisecond))
	}
}
