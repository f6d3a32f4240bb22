// cmd/kvcli is the CLI entry-point built with Cobra.
//
// Run without arguments for the interactive numbered menu:
//
//	kvcli --config client.yaml
//
// or invoke a single operation directly, for scripting:
//
//	kvcli put mykey "hello world" --config client.yaml
//	kvcli get mykey                --config client.yaml
package main

import (
	"bufio"
	"context"
	"distributed-kvstore/internal/client"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "kvcli",
		Short: "CLI client for the distributed KV store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := client.LoadConfig(configPath)
			if err != nil {
				return err
			}
			runInteractive(client.New(cfg), cfg)
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "client.yaml", "Path to client config YAML")
	root.AddCommand(initCmd(), getCmd(), putCmd(), toggleServerCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadClient() (*client.Client, client.Config, error) {
	cfg, err := client.LoadConfig(configPath)
	if err != nil {
		return nil, client.Config{}, err
	}
	return client.New(cfg), cfg, nil
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the cluster from the configured server list",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cfg, err := loadClient()
			if err != nil {
				return err
			}
			code, err := c.Init(context.Background(), cfg.ServerList)
			if err != nil {
				return err
			}
			fmt.Println("init:", code)
			return nil
		},
	}
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Retrieve a value by key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := loadClient()
			if err != nil {
				return err
			}
			value, code, err := c.Get(context.Background(), args[0])
			if err != nil {
				return err
			}
			printGetResult(value, code)
			return nil
		},
	}
}

func putCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put <key> <value>",
		Short: "Store a key-value pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := loadClient()
			if err != nil {
				return err
			}
			code, err := c.Put(context.Background(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Println("put:", code)
			return nil
		},
	}
}

func toggleServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-server <host:port>",
		Short: "Flip a node's simulated liveness flag (test hook)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, portStr, ok := strings.Cut(args[0], ":")
			if !ok {
				return fmt.Errorf("expected host:port, got %q", args[0])
			}
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return fmt.Errorf("invalid port in %q: %w", args[0], err)
			}
			c, _, err := loadClient()
			if err != nil {
				return err
			}
			return c.ToggleServer(context.Background(), host, port)
		},
	}
}

// runInteractive drives a numbered menu: 1 init, 2 get, 3 put,
// 4 shutdown, 5 toggle-server, anything else exits.
func runInteractive(c *client.Client, cfg client.Config) {
	scanner := bufio.NewScanner(os.Stdin)
	ctx := context.Background()

	for {
		fmt.Println()
		fmt.Println("1. init")
		fmt.Println("2. get")
		fmt.Println("3. put")
		fmt.Println("4. shutdown")
		fmt.Println("5. toggle-server")
		fmt.Print("choice: ")

		if !scanner.Scan() {
			return
		}
		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			code, err := c.Init(ctx, cfg.ServerList)
			reportErrOrCode(err, code)
		case "2":
			fmt.Print("key: ")
			if !scanner.Scan() {
				return
			}
			key := strings.TrimSpace(scanner.Text())
			value, code, err := c.Get(ctx, key)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			printGetResult(value, code)
		case "3":
			fmt.Print("key: ")
			if !scanner.Scan() {
				return
			}
			key := strings.TrimSpace(scanner.Text())
			fmt.Print("value: ")
			if !scanner.Scan() {
				return
			}
			value := strings.TrimSpace(scanner.Text())
			code, err := c.Put(ctx, key, value)
			reportErrOrCode(err, code)
		case "4":
			code, err := c.Destroy(ctx)
			reportErrOrCode(err, code)
			fmt.Println("shutting down")
			return
		case "5":
			fmt.Print("host:port: ")
			if !scanner.Scan() {
				return
			}
			host, portStr, ok := strings.Cut(strings.TrimSpace(scanner.Text()), ":")
			if !ok {
				fmt.Println("error: expected host:port")
				continue
			}
			port, err := strconv.Atoi(portStr)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			if err := c.ToggleServer(ctx, host, port); err != nil {
				fmt.Println("error:", err)
			}
		default:
			return
		}
	}
}

func reportErrOrCode(err error, code int) {
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("code:", code)
}

func printGetResult(value *string, code int) {
	if value == nil {
		fmt.Println("value: <null>  code:", code)
		return
	}
	fmt.Printf("value: %q  code: %d\n", *value, code)
}
