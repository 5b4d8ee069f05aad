package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/myflix/internal/services"
	"github.com/desertthunder/myflix/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct authenticated GET request to the movie API
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if err := r.connect(); err != nil {
		return err
	}

	r.logger.Info("GET request", "path", path)

	resp, err := r.api.Get(ctx, path)
	return r.writeResponse(resp, err, cmd.Bool("pretty"))
}

// APIPost makes a direct authenticated POST request to the movie API
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	data := cmd.String("data")

	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if data == "" {
		return fmt.Errorf("%w: --data flag is required", shared.ErrMissingArgument)
	}

	var jsonTest any
	if err := json.Unmarshal([]byte(data), &jsonTest); err != nil {
		return fmt.Errorf("%w: data is not valid JSON: %v", shared.ErrInvalidInput, err)
	}
	if err := r.connect(); err != nil {
		return err
	}

	r.logger.Info("POST request", "path", path)

	resp, err := r.api.Post(ctx, path, []byte(data))
	return r.writeResponse(resp, err, true)
}

// writeResponse prints the body, then reports a non-2xx status as an error.
func (r *Runner) writeResponse(resp *services.APIResponse, err error, pretty bool) error {
	if resp == nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.IsJSON {
		if werr := r.writeJSON(resp.JSONData, pretty); werr != nil {
			return werr
		}
	} else if len(resp.Body) > 0 {
		r.output.Write(resp.Body)
		r.output.Write([]byte("\n"))
	}

	if err != nil {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}
	return nil
}
