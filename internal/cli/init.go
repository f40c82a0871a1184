package cli

import "fmt"

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized vaiga storage at: %s\n", ctx.Store.Path())
	fmt.Println("Found your household with 'vaiga found' to get started.")
	return nil
}
