// Command unbrotli decompresses brotli streams (RFC 7932).
//
// With no paths it decompresses stdin to stdout. Each named FILE.br is
// decompressed next to it as FILE unless --output is given.
package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/openpack/brotli"
)

var cli struct {
	Output      string   `short:"o" help:"Write output to this file (single input only)." type:"path"`
	Force       bool     `short:"f" help:"Overwrite existing output files."`
	LargeWindow bool     `help:"Accept the large-window extension (windows up to 1 GiB)."`
	Dictionary  string   `short:"D" help:"Compound dictionary file." type:"existingfile"`
	Verbose     bool     `short:"v" help:"Enable debug logging."`
	Paths       []string `arg:"" optional:"" help:"Files to decompress; stdin if none." type:"existingfile"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("unbrotli"),
		kong.Description("Decompress brotli streams."),
	)

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if cli.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if cli.Output != "" && len(cli.Paths) > 1 {
		ctx.Fatalf("--output cannot be combined with multiple inputs")
	}

	var dict []byte
	if cli.Dictionary != "" {
		var err error
		dict, err = os.ReadFile(cli.Dictionary)
		if err != nil {
			log.WithError(err).Fatal("reading dictionary")
		}
		log.WithFields(logrus.Fields{
			"path": cli.Dictionary,
			"size": len(dict),
		}).Debug("loaded dictionary")
	}

	if len(cli.Paths) == 0 {
		if err := decompress(os.Stdin, os.Stdout, dict); err != nil {
			log.WithError(err).Fatal("decompressing stdin")
		}
		return
	}

	for _, path := range cli.Paths {
		if err := decompressFile(log, path, dict); err != nil {
			log.WithError(err).WithField("path", path).Fatal("decompressing")
		}
	}
}

func decompressFile(log *logrus.Logger, path string, dict []byte) error {
	out := cli.Output
	if out == "" {
		if !strings.HasSuffix(path, ".br") {
			return errors.Errorf("%s has no .br suffix; use --output", path)
		}
		out = strings.TrimSuffix(path, ".br")
	}

	in, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening input")
	}
	defer in.Close()

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !cli.Force {
		flags |= os.O_EXCL
	}
	dst, err := os.OpenFile(out, flags, 0o644)
	if err != nil {
		return errors.Wrap(err, "opening output")
	}

	if err := decompress(in, dst, dict); err != nil {
		dst.Close()
		os.Remove(out)
		return err
	}
	if err := dst.Close(); err != nil {
		return errors.Wrap(err, "closing output")
	}
	log.WithFields(logrus.Fields{
		"input":  filepath.Base(path),
		"output": filepath.Base(out),
	}).Debug("decompressed")
	return nil
}

func decompress(src io.Reader, dst io.Writer, dict []byte) error {
	d := brotli.NewDecoder()
	if cli.LargeWindow {
		if err := d.EnableLargeWindow(); err != nil {
			return err
		}
	}
	if len(dict) > 0 {
		if err := d.AttachDictionaryChunk(dict); err != nil {
			return err
		}
	}

	in := make([]byte, 32*1024)
	out := make([]byte, 64*1024)
	for {
		n, result := d.Pull(out)
		if n > 0 {
			if _, err := dst.Write(out[:n]); err != nil {
				return errors.Wrap(err, "writing output")
			}
		}
		switch result {
		case brotli.ResultDone:
			if d.UnusedInput() > 0 {
				return errors.Errorf("%d trailing bytes after stream end", d.UnusedInput())
			}
			return nil
		case brotli.ResultNeedsMoreOutput:
		case brotli.ResultError:
			return errors.Wrap(d.Err(), "invalid stream")
		case brotli.ResultNeedsMoreInput:
			m, err := src.Read(in)
			if m > 0 {
				d.Feed(in[:m])
				continue
			}
			if err == io.EOF {
				return errors.New("truncated stream")
			}
			if err != nil {
				return errors.Wrap(err, "reading input")
			}
		}
	}
}
