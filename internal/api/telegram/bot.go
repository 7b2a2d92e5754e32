package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	app "card-grader/internal/application"
	"card-grader/internal/container"
	"card-grader/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я оцениваю состояние коллекционных карт по фотографии.

📸 Отправьте /grade, затем фото карты, и я посчитаю центровку, состояние поверхности и углов.

📋 Команды:
/grade — оценить карту
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото карты целиком
2️⃣ Бот найдёт край карты и выпрямит её
3️⃣ Вы получите признаки, пояснения и оценку, если модель подключена

💡 Рекомендации:
• Снимайте сверху, без сильного наклона
• Используйте однотонный фон, контрастный к рамке карты
• Карта должна целиком попадать в кадр

📋 Команды:
/grade — оценить карту
/cancel — отменить операцию`

	msgAwaitingPhoto   = "📸 Отправьте фото карты для оценки."
	msgGradeFirst      = "📋 Чтобы оценить карту, сначала отправьте /grade, затем фото."
	msgCancelled       = "❌ Операция отменена. Отправьте /grade для новой оценки."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото карты."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgUnreadable      = "⚠️ Не удалось прочитать изображение. Попробуйте другой файл."
	msgDegenerate      = "⚠️ Не удалось найти край карты. Снимите карту на однотонном фоне целиком."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
)

// Bot представляет Telegram-бота
type Bot struct {
	api        *tgbotapi.BotAPI
	users      *app.UserService
	grading    *app.GradingService
	log        *logrus.Logger
	httpClient *http.Client
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container, logger *logrus.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logger.WithField("account", api.Self.UserName).Info("telegram bot authorized")

	return &Bot{
		api:        api,
		users:      c.UserService,
		grading:    c.GradingService,
		log:        logger,
		httpClient: http.DefaultClient,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Обработка фото и изображений, отправленных файлом
	if fileID, ok := imageFileID(msg); ok {
		user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
		if err != nil {
			b.log.WithError(err).WithField("user_id", msg.From.ID).Error("get user")
			b.sendMessage(msg.Chat.ID, msgProcessingError)
			return
		}
		if !user.AwaitingCard() {
			b.sendMessage(msg.Chat.ID, msgGradeFirst)
			return
		}
		b.handlePhoto(ctx, msg, fileID)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	var err error
	switch msg.Command() {
	case "start":
		_, err = b.users.Cancel(ctx, userID, chatID)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "grade":
		_, err = b.users.BeginGrading(ctx, userID, chatID)
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "cancel":
		_, err = b.users.Cancel(ctx, userID, chatID)
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}

	if err != nil {
		b.log.WithError(err).WithField("user_id", userID).Warn("failed to update user state")
	}
}

// handlePhoto скачивает фото и отправляет результат оценки
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, fileID string) {
	chatID := msg.Chat.ID
	b.sendMessage(chatID, msgProcessing)

	imageData, err := b.downloadFile(ctx, fileID)
	if err != nil {
		b.log.WithError(err).Error("download photo")
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	res, err := b.grading.AcceptCardPhoto(ctx, msg.From.ID, chatID, imageData)
	if err != nil {
		b.sendMessage(chatID, errorMessage(err))
		return
	}

	b.sendMessage(chatID, FormatResult(res))
}

// imageFileID берёт фото в максимальном разрешении или документ-изображение.
func imageFileID(msg *tgbotapi.Message) (string, bool) {
	if len(msg.Photo) > 0 {
		return msg.Photo[len(msg.Photo)-1].FileID, true
	}
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		return msg.Document.FileID, true
	}
	return "", false
}

// errorMessage переводит ошибку конвейера в сообщение пользователю.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrNotAwaitingCard):
		return msgGradeFirst
	case errors.Is(err, entity.ErrUnreadableImage):
		return msgUnreadable
	case errors.Is(err, entity.ErrDegenerateGeometry):
		return msgDegenerate
	default:
		return msgProcessingError
	}
}

// FormatResult текст ответа с признаками, пояснениями и оценкой.
func FormatResult(res *app.GradingResult) string {
	var sb strings.Builder
	if res.Prediction != nil {
		fmt.Fprintf(&sb, "🏷 Ожидаемая оценка PSA: %.1f (ближайшая %d)\n\n", res.Prediction.Grade, res.Feedback.GradeBucket)
	}
	sb.WriteString("📊 Признаки:\n")
	for _, line := range res.Feedback.Lines() {
		sb.WriteString("• ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	if res.Record.Diagnostics.FallbackUsed {
		sb.WriteString("\n⚠️ Печатная область не найдена, центровка оценена по запасной рамке.")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.WithError(err).WithField("chat_id", chatID).Error("send message")
	}
}
