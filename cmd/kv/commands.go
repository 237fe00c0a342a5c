package kv

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := kvClient.Set(args[0], args[1]); err != nil {
				return err
			}
			fmt.Println("set successfully")
			return nil
		},
	}

	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value, loaded, err := kvClient.Get(key)
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, found=%v, value=%s\n", key, loaded, value)
			return nil
		},
	}

	delCmd = &cobra.Command{
		Use:   "del [key]...",
		Short: "Deletes one or more key value pairs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := kvClient.Del(args...)
			if err != nil {
				return err
			}
			if removed >= 0 {
				fmt.Printf("deleted %d key(s)\n", removed)
			} else {
				fmt.Println("delete successfully")
			}
			return nil
		},
	}

	keysCmd = &cobra.Command{
		Use:   "keys",
		Short: "Lists all keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := kvClient.Keys()
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				fmt.Println("(empty)")
				return nil
			}
			fmt.Println(strings.Join(keys, "\n"))
			return nil
		},
	}

	lpushCmd = &cobra.Command{
		Use:   "lpush [key] [value]...",
		Short: "Prepends values to a list (typed protocol only)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			length, err := kvClient.LPush(args[0], args[1:]...)
			if err != nil {
				return err
			}
			fmt.Printf("list length is now %d\n", length)
			return nil
		},
	}

	lrangeCmd = &cobra.Command{
		Use:   "lrange [key] [start] [stop]",
		Short: "Reads an inclusive list range (typed protocol only)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("start must be a number: %w", err)
			}
			stop, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("stop must be a number: %w", err)
			}
			values, err := kvClient.LRange(args[0], start, stop)
			if err != nil {
				return err
			}
			for i, value := range values {
				fmt.Printf("%d) %s\n", i, value)
			}
			return nil
		},
	}

	pingCmd = &cobra.Command{
		Use:   "ping",
		Short: "Checks the connection to the server (typed protocol only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := kvClient.Ping(); err != nil {
				return err
			}
			fmt.Println("PONG")
			return nil
		},
	}
)
