package video

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	authController "github.com/GintGld/media-engine/internal/controller/auth"
	resp "github.com/GintGld/media-engine/internal/lib/api/response"
	"github.com/GintGld/media-engine/internal/models"
	"github.com/GintGld/media-engine/internal/service"
)

var validExtensions = []string{".mp4", ".avi", ".mov", ".mkv"}

func New(
	srv Media,
	authC *authController.Static,
	tmpDir string,
	timeout time.Duration,
) *fiber.App {
	videoCtr := videoController{
		srv:      srv,
		tmpDir:   tmpDir,
		timeout:  timeout,
		validate: validator.New(),
	}

	app := fiber.New()

	app.Use(authC.Required())

	app.Post("/", videoCtr.upload)
	app.Get("/", videoCtr.search)
	app.Get("/:id", videoCtr.video)
	app.Post("/:id/trim", videoCtr.trim)
	app.Post("/merge", videoCtr.merge)

	return app
}

type videoController struct {
	srv      Media
	tmpDir   string
	timeout  time.Duration
	validate *validator.Validate
}

type Media interface {
	Upload(ctx context.Context, tmpPath string, origName string) (models.SourceVideo, error)
	Video(ctx context.Context, id uuid.UUID) (models.SourceVideo, error)
	SearchVideos(ctx context.Context, filter models.VideoFilter) ([]models.SourceVideo, error)
	TrimBatch(ctx context.Context, videoID uuid.UUID, ranges []models.TrimRange) ([]models.TrimmedClip, error)
	Merge(ctx context.Context, clipIDs []uuid.UUID) (models.MergedVideo, error)
}

// upload accepts exactly one multipart video file, probes and
// validates it, and creates the source video record.
func (videoCtr *videoController) upload(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), videoCtr.timeout)
	defer cancel()

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			resp.Failure("No video file was provided. Please upload a valid video file."),
		)
	}

	files := form.File["file"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(
			resp.Failure("No video file was provided. Please upload a valid video file."),
		)
	}
	if len(files) > 1 {
		return c.Status(fiber.StatusBadRequest).JSON(
			resp.Failure("Only one video file can be uploaded at a time."),
		)
	}
	file := files[0]

	if !hasValidExtension(file.Filename) {
		return c.Status(fiber.StatusBadRequest).JSON(
			resp.Failure("Unsupported file extension. Allowed extensions are: " + strings.Join(validExtensions, ", ")),
		)
	}

	tmpFile, err := os.CreateTemp(videoCtr.tmpDir, "upload-*.mp4")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(
			resp.Failure("An unexpected error occurred."),
		)
	}
	tmpFileName := tmpFile.Name()
	tmpFile.Close()
	defer os.Remove(tmpFileName)

	if err := c.SaveFile(file, tmpFileName); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(
			resp.Failure("An unexpected error occurred."),
		)
	}

	reader, err := os.Open(tmpFileName)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(
			resp.Failure("An unexpected error occurred."),
		)
	}
	mimeType, err := mimetype.DetectReader(reader)
	reader.Close()
	if err != nil || !strings.HasPrefix(mimeType.String(), "video/") {
		return c.Status(fiber.StatusBadRequest).JSON(
			resp.Failure("The submitted data was not recognized as a video file. Please check and try again."),
		)
	}

	video, err := videoCtr.srv.Upload(ctx, tmpFileName, file.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDecodeFailed),
			errors.Is(err, service.ErrSizeExceeded),
			errors.Is(err, service.ErrDurationOutOfRange):
			return c.Status(fiber.StatusBadRequest).JSON(
				resp.Failure(err.Error()),
			)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(
			resp.Failure("An unexpected error occurred."),
		)
	}

	return c.Status(fiber.StatusCreated).JSON(
		resp.Success("Video uploaded successfully", fiber.Map{"id": video.ID.String()}),
	)
}

// search returns the library, fuzzy-filtered by the
// name query parameter.
func (videoCtr *videoController) search(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), videoCtr.timeout)
	defer cancel()

	filter := models.VideoFilter{
		Name:       c.Query("name"),
		MaxRespLen: c.QueryInt("res_len"),
	}

	videos, err := videoCtr.srv.SearchVideos(ctx, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(
			resp.Failure("An unexpected error occurred."),
		)
	}

	return c.Status(fiber.StatusOK).JSON(
		resp.SuccessCount("", fiber.Map{"videos": videos}, len(videos)),
	)
}

func (videoCtr *videoController) video(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), videoCtr.timeout)
	defer cancel()

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			resp.Failure("Invalid video id."),
		)
	}

	video, err := videoCtr.srv.Video(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(
				resp.Failure("Video not found."),
			)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(
			resp.Failure("An unexpected error occurred."),
		)
	}

	return c.Status(fiber.StatusOK).JSON(
		resp.Success("", fiber.Map{"video": video}),
	)
}

type trimRequest struct {
	Ranges []models.TrimRange `json:"ranges" validate:"required,min=1,dive"`
}

// trim cuts the requested ranges out of the video. Ranges are
// processed independently, partial success is a success.
func (videoCtr *videoController) trim(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), videoCtr.timeout)
	defer cancel()

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			resp.Failure("Invalid video id."),
		)
	}

	var req trimRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			resp.Failure("Invalid request body."),
		)
	}

	if err := videoCtr.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			resp.Failure("Each range requires 0 <= start_time < end_time."),
		)
	}

	clips, err := videoCtr.srv.TrimBatch(ctx, id, req.Ranges)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVideoNotFound):
			return c.Status(fiber.StatusNotFound).JSON(
				resp.Failure("Video not found."),
			)
		case errors.Is(err, service.ErrInvalidRange),
			errors.Is(err, service.ErrTrimFailed):
			return c.Status(fiber.StatusBadRequest).JSON(
				resp.Failure(err.Error()),
			)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(
			resp.Failure("An unexpected error occurred."),
		)
	}

	return c.Status(fiber.StatusCreated).JSON(
		resp.SuccessCount("Video trimmed successfully", fiber.Map{"clips": clips}, len(clips)),
	)
}

type mergeRequest struct {
	ClipIDs []string `json:"clip_ids" validate:"required,min=2,dive,uuid4"`
}

// merge concatenates the clips in request order.
func (videoCtr *videoController) merge(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), videoCtr.timeout)
	defer cancel()

	var req mergeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			resp.Failure("Invalid request body."),
		)
	}

	if err := videoCtr.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			resp.Failure("At least two valid clip ids are required."),
		)
	}

	clipIDs := make([]uuid.UUID, 0, len(req.ClipIDs))
	for _, s := range req.ClipIDs {
		id, err := uuid.Parse(s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(
				resp.Failure("Invalid clip id."),
			)
		}
		clipIDs = append(clipIDs, id)
	}

	merged, err := videoCtr.srv.Merge(ctx, clipIDs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClipNotFound):
			return c.Status(fiber.StatusNotFound).JSON(
				resp.Failure("Clip not found."),
			)
		case errors.Is(err, service.ErrNotEnoughClips),
			errors.Is(err, service.ErrClipNotReady),
			errors.Is(err, service.ErrMergeFailed):
			return c.Status(fiber.StatusBadRequest).JSON(
				resp.Failure(err.Error()),
			)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(
			resp.Failure("An unexpected error occurred."),
		)
	}

	return c.Status(fiber.StatusCreated).JSON(
		resp.Success("Videos merged successfully", fiber.Map{"merged_video": merged}),
	)
}

func hasValidExtension(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range validExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
