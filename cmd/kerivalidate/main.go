// Command kerivalidate reads a key-event stream from stdin or a file and
// drives it through the stream validator, printing one line per accepted
// message and then the first rejection, if any.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/cvsouth/keri-go/internal/klog"
	"github.com/cvsouth/keri-go/pkg/keriox/log"
	"github.com/cvsouth/keri-go/pkg/keriox/validator"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	var logPath string
	flag.StringVar(&logPath, "log", "keriox-debug.log", "path to the debug log file")
	flag.Parse()

	logger, logFile := klog.Setup(logPath)
	defer func() { _ = logFile.Close() }()

	fmt.Printf("=== keriox stream validator %s ===\n", Version)

	stream, err := readInput(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading input: %v\n", err)
		os.Exit(1)
	}

	l := log.NewMemory()
	results, err := validator.Process(context.Background(), l, stream)
	for _, r := range results {
		logger.Info("accepted message", "identifier", r.Identifier, "sn", r.Sn, "type", r.Type)
		if r.State != nil {
			fmt.Printf("%s sn=%d type=%s keys=%d threshold=%d\n", r.Identifier, r.Sn, r.Type, len(r.State.CurrentKeys), r.State.CurrentThreshold)
		} else {
			fmt.Printf("%s sn=%d type=%s (receipt)\n", r.Identifier, r.Sn, r.Type)
		}
	}
	if err != nil {
		logger.Error("validation failed", "error", err)
		fmt.Fprintf(os.Stderr, "rejected: %v\n", err)
		os.Exit(1)
	}
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}
