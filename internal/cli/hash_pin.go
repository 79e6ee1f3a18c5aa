package cli

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomfrance/sacha/internal/auth"
)

// HashPINCommand prints the bcrypt hash to put in AUTH_PIN_HASH.
type HashPINCommand struct {
	PIN  string
	Cost int

	in  io.Reader
	out io.Writer
}

func NewHashPINCommand() *HashPINCommand {
	return &HashPINCommand{in: os.Stdin, out: os.Stdout}
}

func (cmd *HashPINCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("hash-pin", flag.ContinueOnError)

	fs.StringVar(&cmd.PIN, "pin", "", "Caregiver PIN (read from stdin when omitted)")
	fs.IntVar(&cmd.Cost, "cost", bcrypt.DefaultCost, "bcrypt cost")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s hash-pin [-pin 1234] [-cost 10]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print the hash to set as AUTH_PIN_HASH together with AUTH_MODE=pin.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *HashPINCommand) Run() error {
	pin := cmd.PIN
	if pin == "" {
		fmt.Fprint(os.Stderr, "PIN: ")
		line, err := bufio.NewReader(cmd.in).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read PIN: %w", err)
		}
		pin = strings.TrimSpace(line)
	}

	hash, err := auth.HashPIN(pin, cmd.Cost)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.out, hash)
	return nil
}
