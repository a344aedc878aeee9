/*
 * Eres OS - ERESFS1 disk image builder.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Command mkimage builds an ERESFS1 disk image from a set of input files,
// the only tool the kernel's fs/simplefs package accepts images from.
package main

import (
	"bytes"
	"fmt"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/justeres/eres-os/kconfig"
)

// bootConfigName is the file the boot config block is baked into the
// image under, when --config is given.
const bootConfigName = "boot.cfg"

func main() {
	optOutput := getopt.StringLong("output", 'o', "", "Output image path")
	optFiles := getopt.ListLong("file", 'f', "Input file (repeatable)")
	optInputDir := getopt.StringLong("input-dir", 0, "", "Directory of input files")
	optConfig := getopt.StringLong("config", 'c', "", "Boot config block to validate and bake in as "+bootConfigName)
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	if *optOutput == "" {
		fmt.Fprintln(os.Stderr, "mkimage: --output is required")
		os.Exit(1)
	}

	files, err := collectInputs(*optFiles, *optInputDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *optConfig != "" {
		configData, err := os.ReadFile(*optConfig)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if _, err := kconfig.ParseConfig(bytes.NewReader(configData)); err != nil {
			fmt.Fprintf(os.Stderr, "mkimage: %s: %v\n", *optConfig, err)
			os.Exit(1)
		}
		for _, f := range files {
			if f.name == bootConfigName {
				fmt.Fprintf(os.Stderr, "%v: %s\n", errDuplicateName, bootConfigName)
				os.Exit(1)
			}
		}
		files = append(files, inputFile{name: bootConfigName, data: configData})
	}

	image, err := buildImage(files)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := os.WriteFile(*optOutput, image, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "mkimage: writing %s: %v\n", *optOutput, err)
		os.Exit(1)
	}
}
