package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/pagemd"
)

// Run executes the convert command.
func (c *ConvertCmd) Run(deps *Dependencies) error {
	html, err := c.read(deps.Stdin)
	if err != nil {
		return err
	}

	content := deps.Clipper.Transduce(deps.Clipper.Extract(html, c.URL))

	if !c.Save {
		_, err := fmt.Fprint(deps.Stdout, content.Markdown)
		return err
	}

	path, err := deps.Writer.Save(deps.Ctx, content)
	if err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, path)
	return nil
}

func (c *ConvertCmd) read(stdin io.Reader) (string, error) {
	if c.File == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(b), nil
	}

	b, err := os.ReadFile(c.File)
	if os.IsNotExist(err) {
		return "", pagemd.Errorf(pagemd.ENOTFOUND, "file %q not found", c.File)
	} else if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", c.File, err)
	}
	return string(b), nil
}
