package cli

import (
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	goerrors "github.com/kbukum/gosh/errors"
	"github.com/kbukum/gosh/httpclient"
	"github.com/kbukum/gosh/script"
)

// requestFlags are shared by the HTTP commands.
type requestFlags struct {
	headers  []string
	timeout  time.Duration
	noThrow  bool
	noFollow bool
	omitBody bool
	retry    retryFlags
}

func (f *requestFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringArrayVarP(&f.headers, "header", "H", nil, `request header as "Name: value", repeatable`)
	fl.DurationVar(&f.timeout, "timeout", 0, "request timeout (default from config)")
	fl.BoolVar(&f.noThrow, "no-throw", false, "print non-2xx responses instead of failing")
	fl.BoolVar(&f.noFollow, "no-follow", false, "do not follow 301/302 redirects")
	fl.BoolVar(&f.omitBody, "omit-body", false, "leave the response body out of error messages")
	f.retry.register(cmd)
}

func (f *requestFlags) options() (httpclient.RequestOptions, error) {
	headers, err := parseHeaders(f.headers)
	if err != nil {
		return httpclient.RequestOptions{}, err
	}
	return httpclient.RequestOptions{
		Headers:                headers,
		Timeout:                f.timeout,
		NoThrow:                f.noThrow,
		NoFollowRedirects:      f.noFollow,
		OmitBodyInErrorMessage: f.omitBody,
	}, nil
}

// parseHeaders turns "Name: value" strings into Headers, keeping the
// caller's spelling of each name.
func parseHeaders(raw []string) (httpclient.Headers, error) {
	headers := httpclient.Headers{}
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, goerrors.InvalidInput("header", `expected "Name: value", got "`+h+`"`)
		}
		headers.Add(name, strings.TrimSpace(value))
	}
	return headers, nil
}

func newHTTPCommand(sc *script.Context) *cobra.Command {
	var (
		flags  requestFlags
		data   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "http <METHOD> <URL>",
		Short: "Send an HTTP request and print the response body",
		Example: `  gosh http GET https://api.example.com/status
  gosh http POST https://api.example.com/items -d '{"name":"x"}' -H 'Content-Type: application/json'
  gosh http GET https://example.com/big.tar.gz -o big.tar.gz`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			opts.SaveResponseToFile = output

			method := strings.ToUpper(args[0])
			var body any
			if cmd.Flags().Changed("data") {
				body = data
			}

			var resp *httpclient.Response
			if rc := flags.retry.config(cmd, sc.Config.Retry); rc != nil {
				rc.RetryIf = httpclient.IsRetryable
				resp, err = sc.HTTP.Retry(cmd.Context(), method, args[1], body, opts, rc)
			} else {
				resp, err = sc.HTTP.Do(cmd.Context(), method, args[1], body, opts)
			}
			if err != nil {
				return err
			}
			printBody(sc, resp)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&data, "data", "d", "", "request body, sent verbatim")
	cmd.Flags().StringVarP(&output, "output", "o", "", "save the response body to this file")
	return cmd
}

func printBody(sc *script.Context, resp *httpclient.Response) {
	if resp.SavedTo != "" || resp.Body == "" {
		return
	}
	sc.Echo(strings.TrimSuffix(resp.Body, "\n"))
}

func newDownloadCommand(sc *script.Context) *cobra.Command {
	var flags requestFlags

	cmd := &cobra.Command{
		Use:   "download <URL> <file>",
		Short: "Stream a URL to a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			if rc := flags.retry.config(cmd, sc.Config.Retry); rc != nil {
				rc.RetryIf = httpclient.IsRetryable
				opts.SaveResponseToFile = args[1]
				_, err = sc.HTTP.Retry(cmd.Context(), http.MethodGet, args[0], nil, opts, rc)
				return err
			}
			_, err = sc.HTTP.Download(cmd.Context(), args[0], args[1], opts)
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

func newUploadCommand(sc *script.Context) *cobra.Command {
	var (
		flags  requestFlags
		method string
	)

	cmd := &cobra.Command{
		Use:   "upload <URL> <file>",
		Short: "Stream a file as the request body",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			var resp *httpclient.Response
			if rc := flags.retry.config(cmd, sc.Config.Retry); rc != nil {
				rc.RetryIf = httpclient.IsRetryable
				resp, err = sc.HTTP.RetryUpload(cmd.Context(), strings.ToUpper(method), args[0], args[1], opts, rc)
			} else {
				resp, err = sc.HTTP.Upload(cmd.Context(), strings.ToUpper(method), args[0], args[1], opts)
			}
			if err != nil {
				return err
			}
			printBody(sc, resp)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&method, "method", "X", http.MethodPut, "HTTP method")
	return cmd
}
