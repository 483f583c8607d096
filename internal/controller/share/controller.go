package share

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	resp "github.com/GintGld/media-engine/internal/lib/api/response"
	"github.com/GintGld/media-engine/internal/models"
	"github.com/GintGld/media-engine/internal/service"
)

// invalidLinkMessage is deliberately the same for expired,
// tampered and unknown links, so the endpoint cannot be used
// as an oracle for which check failed.
const invalidLinkMessage = "Wrong or invalid link."

func New(
	srv MergedProvider,
	signer Signer,
	siteURL string,
	linkTTL time.Duration,
	timeout time.Duration,
) *fiber.App {
	shareCtr := shareController{
		srv:     srv,
		signer:  signer,
		siteURL: siteURL,
		linkTTL: linkTTL,
		timeout: timeout,
	}

	app := fiber.New()

	app.Post("/:id", shareCtr.issue)
	app.Get("/download", shareCtr.download)

	return app
}

type shareController struct {
	srv     MergedProvider
	signer  Signer
	siteURL string
	linkTTL time.Duration
	timeout time.Duration
}

type MergedProvider interface {
	Merged(ctx context.Context, id uuid.UUID) (models.MergedVideo, error)
}

type Signer interface {
	Issue(mergedID uuid.UUID, ttl time.Duration) (string, error)
	Validate(token string, maxAge time.Duration) (uuid.UUID, error)
}

// issue creates a time-limited share link for a merged video.
func (shareCtr *shareController) issue(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), shareCtr.timeout)
	defer cancel()

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			resp.Failure("Invalid video id."),
		)
	}

	if _, err := shareCtr.srv.Merged(ctx, id); err != nil {
		if errors.Is(err, service.ErrMergedNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(
				resp.Failure("Merged video not found."),
			)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(
			resp.Failure("An unexpected error occurred."),
		)
	}

	token, err := shareCtr.signer.Issue(id, shareCtr.linkTTL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(
			resp.Failure("An unexpected error occurred."),
		)
	}

	link := shareCtr.siteURL + "/share/download?token=" + token

	return c.Status(fiber.StatusOK).JSON(
		resp.Success("Link generated successfully", fiber.Map{"link": link}),
	)
}

// download validates the presented token and streams the
// merged artifact back. Every failure collapses into one
// generic message.
func (shareCtr *shareController) download(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), shareCtr.timeout)
	defer cancel()

	token := c.Query("token")
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(
			resp.Failure(invalidLinkMessage),
		)
	}

	id, err := shareCtr.signer.Validate(token, shareCtr.linkTTL)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			resp.Failure(invalidLinkMessage),
		)
	}

	merged, err := shareCtr.srv.Merged(ctx, id)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			resp.Failure(invalidLinkMessage),
		)
	}

	return c.Download(merged.FilePath)
}
