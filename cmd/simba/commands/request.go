package commands

import (
	"github.com/spf13/cobra"
)

// NewGetCommand creates the get command
func NewGetCommand() *cobra.Command {
	var query []string

	cmd := &cobra.Command{
		Use:   "get PATH",
		Short: "Issue a GET request",
		Long:  "Issue a GET request against the target API and print the response body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			values, err := parseQuery(query)
			if err != nil {
				return err
			}

			resp, err := client.Get(cmd.Context(), args[0], values)
			if err != nil {
				return err
			}

			return printResponse(resp)
		},
	}

	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "query parameter (key=value, repeatable)")

	return cmd
}

// NewDeleteCommand creates the delete command
func NewDeleteCommand() *cobra.Command {
	var query []string

	cmd := &cobra.Command{
		Use:   "delete PATH",
		Short: "Issue a DELETE request",
		Long:  "Issue a DELETE request against the target API and print the response body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			values, err := parseQuery(query)
			if err != nil {
				return err
			}

			resp, err := client.Delete(cmd.Context(), args[0], values)
			if err != nil {
				return err
			}

			return printResponse(resp)
		},
	}

	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "query parameter (key=value, repeatable)")

	return cmd
}

// NewPostCommand creates the post command
func NewPostCommand() *cobra.Command {
	var (
		data  string
		files []string
	)

	cmd := &cobra.Command{
		Use:   "post PATH",
		Short: "Issue a POST request",
		Long:  "Issue a POST request with a JSON body or multipart uploads and print the response body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			body, err := readData(data)
			if err != nil {
				return err
			}

			uploads, err := parseFiles(files)
			if err != nil {
				return err
			}

			resp, err := client.Post(cmd.Context(), args[0], body, uploads...)
			if err != nil {
				return err
			}

			return printResponse(resp)
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "request body (string or @file)")
	cmd.Flags().StringArrayVar(&files, "file", nil, "multipart upload (field=path, repeatable)")

	return cmd
}

// NewPutCommand creates the put command
func NewPutCommand() *cobra.Command {
	var (
		data  string
		files []string
	)

	cmd := &cobra.Command{
		Use:   "put PATH",
		Short: "Issue a PUT request",
		Long:  "Issue a PUT request with a JSON body or multipart uploads and print the response body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			body, err := readData(data)
			if err != nil {
				return err
			}

			uploads, err := parseFiles(files)
			if err != nil {
				return err
			}

			resp, err := client.Put(cmd.Context(), args[0], body, uploads...)
			if err != nil {
				return err
			}

			return printResponse(resp)
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "request body (string or @file)")
	cmd.Flags().StringArrayVar(&files, "file", nil, "multipart upload (field=path, repeatable)")

	return cmd
}

// NewPatchCommand creates the patch command
func NewPatchCommand() *cobra.Command {
	var (
		data  string
		files []string
	)

	cmd := &cobra.Command{
		Use:   "patch PATH",
		Short: "Issue a PATCH request",
		Long:  "Issue a PATCH request with a JSON body or multipart uploads and print the response body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			body, err := readData(data)
			if err != nil {
				return err
			}

			uploads, err := parseFiles(files)
			if err != nil {
				return err
			}

			resp, err := client.Patch(cmd.Context(), args[0], body, uploads...)
			if err != nil {
				return err
			}

			return printResponse(resp)
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "request body (string or @file)")
	cmd.Flags().StringArrayVar(&files, "file", nil, "multipart upload (field=path, repeatable)")

	return cmd
}
