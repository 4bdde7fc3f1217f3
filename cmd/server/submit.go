package main

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"prooflayer/internal/platform/logger"
	"prooflayer/internal/submission/client"
	"prooflayer/internal/upload"
)

type submitFlags struct {
	baseURL    string
	name       string
	email      string
	title      string
	rating     int
	text       string
	video      string
	screenshot string
}

func newSubmitCmd(root *rootOptions) *cobra.Command {
	f := &submitFlags{}
	cmd := &cobra.Command{
		Use:   "submit FORM_SLUG",
		Short: "Send a testimonial to a public form",
		Long: `Send a testimonial the way the hosted collection page does. A video
wins over a screenshot, which wins over text. Media is uploaded to
UPLOAD_BASE_URL before the submission is posted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			baseURL := f.baseURL
			if baseURL == "" {
				baseURL = cfg.Server.PublicBaseURL
			}

			draft := client.Draft{
				AuthorName:  f.name,
				AuthorEmail: f.email,
				AuthorTitle: f.title,
				Rating:      f.rating,
				Text:        f.text,
			}
			if f.video != "" {
				file, closeFn, err := openMedia(f.video)
				if err != nil {
					return err
				}
				defer closeFn()
				draft.Video = file
			}
			if f.screenshot != "" {
				file, closeFn, err := openMedia(f.screenshot)
				if err != nil {
					return err
				}
				defer closeFn()
				draft.Screenshot = file
			}

			var uploader upload.Uploader
			if cfg.Upload.BaseURL != "" {
				uploader = upload.NewHTTPUploader(upload.Config{
					BaseURL: cfg.Upload.BaseURL,
					APIKey:  cfg.Upload.APIKey,
					Timeout: cfg.Upload.Timeout,
				})
			}

			errOut := cmd.ErrOrStderr()
			c := client.New(client.Config{BaseURL: baseURL}, uploader, logger.NewWithWriter(errOut, cfg.Server.LogLevel))
			res, err := c.Submit(cmd.Context(), args[0], draft, func(sent, total int64) {
				fmt.Fprintf(errOut, "\ruploading %d/%d bytes", sent, total)
				if sent == total {
					fmt.Fprintln(errOut)
				}
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "submitted %s (%s, %s)\n", res.ID, res.Kind, res.Status)
			if res.ThankYou != "" {
				fmt.Fprintln(cmd.OutOrStdout(), res.ThankYou)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&f.baseURL, "base-url", "", "API base URL (defaults to PUBLIC_BASE_URL)")
	cmd.Flags().StringVar(&f.name, "name", "", "author name")
	cmd.Flags().StringVar(&f.email, "email", "", "author email")
	cmd.Flags().StringVar(&f.title, "title", "", "author title or company")
	cmd.Flags().IntVar(&f.rating, "rating", 0, "star rating from 1 to 5")
	cmd.Flags().StringVar(&f.text, "text", "", "testimonial text")
	cmd.Flags().StringVar(&f.video, "video", "", "path to a video file")
	cmd.Flags().StringVar(&f.screenshot, "screenshot", "", "path to a screenshot image")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

// openMedia opens path and sniffs its content type from the extension,
// falling back to the first bytes of the file.
func openMedia(path string) (*upload.File, func(), error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	info, err := fh.Stat()
	if err != nil {
		_ = fh.Close()
		return nil, nil, err
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		head := make([]byte, 512)
		n, _ := fh.Read(head)
		contentType = http.DetectContentType(head[:n])
		if _, err := fh.Seek(0, 0); err != nil {
			_ = fh.Close()
			return nil, nil, err
		}
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}

	return &upload.File{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Size:        info.Size(),
		Body:        fh,
	}, func() { _ = fh.Close() }, nil
}
