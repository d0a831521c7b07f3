// Command replyguard-classify scores reply text offline, one JSON verdict per line
//
//	replyguard-classify -sensitivity high "Great post! 🎉🎉🎉🎉🎉"
//	replyguard-classify < replies.txt
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"replyguard/internal/core/classifier"
	"replyguard/internal/core/policy"
)

type verdict struct {
	Text        string              `json:"text"`
	Total       float64             `json:"total"`
	Reasons     []string            `json:"reasons"`
	Metrics     classifier.Features `json:"metrics"`
	Sensitivity policy.Sensitivity  `json:"sensitivity"`
	Hide        bool                `json:"hide"`
}

func main() {
	fSens := flag.String("sensitivity", string(policy.Default), "hide threshold: low | medium | high")
	fOnly := flag.Bool("hidden", false, "print only texts that would be hidden")
	flag.Parse()

	s, ok := policy.Parse(*fSens)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown -sensitivity %q (expected: low | medium | high)\n", *fSens)
		os.Exit(2)
	}

	var in io.Reader = os.Stdin
	if flag.NArg() > 0 {
		in = strings.NewReader(strings.Join(flag.Args(), "\n"))
	}
	if err := run(in, os.Stdout, classifier.New(), s, *fOnly); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(in io.Reader, out io.Writer, c *classifier.Classifier, s policy.Sensitivity, onlyHidden bool) error {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		res, feats := c.Explain(line)
		v := verdict{
			Text:        line,
			Total:       res.Total,
			Reasons:     res.Reasons,
			Metrics:     feats,
			Sensitivity: s,
			Hide:        policy.ShouldHide(res, s),
		}
		if onlyHidden && !v.Hide {
			continue
		}
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	return sc.Err()
}
