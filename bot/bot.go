package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"yumzy-partner/live"
	"yumzy-partner/models"
	"yumzy-partner/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// Notifier is what the console needs from the notification dispatcher.
type Notifier interface {
	services.StatusNotifier
	NotifyCustom(ctx context.Context, orderIDs []string, message, restaurantName string) (bool, error)
}

// Bot is the partner console: a linked chat can review pre-order
// categories, decide on orders and message customers.
type Bot struct {
	api      *tgbotapi.BotAPI
	notifier Notifier
	hub      *live.Hub

	// chats that were asked for a custom message, keyed to the category id
	awaitingMsg   map[int64]string
	awaitingMsgMu sync.Mutex

	orderLocks sync.Map // map[orderID]*sync.Mutex, serializes card edits per order
}

func New(token string, notifier Notifier, hub *live.Hub) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:         api,
		notifier:    notifier,
		hub:         hub,
		awaitingMsg: make(map[int64]string),
	}, nil
}

// cardMarkup converts OrderCardContent.Buttons to a Telegram inline keyboard.
func cardMarkup(c services.OrderCardContent) *tgbotapi.InlineKeyboardMarkup {
	if len(c.Buttons) == 0 {
		return nil
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, row := range c.Buttons {
		var btns []tgbotapi.InlineKeyboardButton
		for _, btn := range row {
			btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.CallbackData))
		}
		rows = append(rows, btns)
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// UpsertOrderCard edits the order's card in the chat if we have a pointer; otherwise sends a new one and saves the pointer.
// On "message not found" (e.g. deleted): send new message and upsert pointer.
// On "message is not modified": ignore.
func (b *Bot) UpsertOrderCard(ctx context.Context, orderID string, chatID int64, content services.OrderCardContent) {
	logger := log.WithFields(log.Fields{"order_id": orderID, "chat_id": chatID})
	messageID, ok, err := services.GetOrderMessagePointer(ctx, orderID, chatID)
	if err != nil {
		logger.WithError(err).Error("[bot] get card pointer")
		return
	}
	if ok {
		edit := tgbotapi.NewEditMessageText(chatID, messageID, content.Text)
		if kb := cardMarkup(content); kb != nil {
			edit.ReplyMarkup = kb
		} else {
			emptyKb := tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
			edit.ReplyMarkup = &emptyKb
		}
		_, err = b.api.Send(edit)
		if err == nil {
			return
		}
		errStr := err.Error()
		if strings.Contains(errStr, "not modified") {
			return
		}
		if !strings.Contains(errStr, "not found") {
			logger.WithError(err).Error("[bot] edit card")
			return
		}
		// card was deleted; fall through and send a fresh one
	}
	msg := tgbotapi.NewMessage(chatID, content.Text)
	if kb := cardMarkup(content); kb != nil {
		msg.ReplyMarkup = *kb
	}
	sent, err := b.api.Send(msg)
	if err != nil {
		logger.WithError(err).Error("[bot] send card")
		return
	}
	if err := services.UpsertOrderMessagePointer(ctx, orderID, chatID, sent.MessageID); err != nil {
		logger.WithError(err).Warn("[bot] save card pointer")
	}
}

// lockOrder locks by orderID and returns an unlock function.
func (b *Bot) lockOrder(orderID string) func() {
	v, _ := b.orderLocks.LoadOrStore(orderID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// RefreshOrderCards re-renders every card already posted for the order.
func (b *Bot) RefreshOrderCards(ctx context.Context, restaurantID, orderID string) {
	unlock := b.lockOrder(orderID)
	defer unlock()

	o, err := services.GetOrder(ctx, restaurantID, orderID)
	if err != nil {
		return
	}
	pointers, err := services.ListOrderMessagePointers(ctx, orderID)
	if err != nil {
		log.WithError(err).WithField("order_id", orderID).Warn("[bot] list card pointers")
		return
	}
	content := services.BuildOrderCard(o)
	for chatID := range pointers {
		b.UpsertOrderCard(ctx, orderID, chatID, content)
	}
}

// pushNewOrder posts a card for a fresh pending order to every linked chat.
func (b *Bot) pushNewOrder(ctx context.Context, restaurantID, orderID string) {
	unlock := b.lockOrder(orderID)
	defer unlock()

	o, err := services.GetOrder(ctx, restaurantID, orderID)
	if err != nil {
		return
	}
	chats, err := services.ChatsForRestaurant(ctx, restaurantID)
	if err != nil {
		log.WithError(err).WithField("restaurant_id", restaurantID).Warn("[bot] list linked chats")
		return
	}
	content := services.BuildOrderCard(o)
	content.Text = "🆕 New order\n" + content.Text
	for _, chatID := range chats {
		b.UpsertOrderCard(ctx, orderID, chatID, content)
	}
}

func (b *Bot) setBotCommands() error {
	cfg := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Link this chat to your restaurant"},
		tgbotapi.BotCommand{Command: "categories", Description: "Pre-order categories"},
		tgbotapi.BotCommand{Command: "unlink", Description: "Stop receiving orders here"},
	)
	_, err := b.api.Request(cfg)
	return err
}

// Run serves updates and pushes live order events until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.setBotCommands(); err != nil {
		log.WithError(err).Warn("[bot] set commands")
	}
	if b.hub != nil {
		go b.followFeed(ctx)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	log.WithField("bot", b.api.Self.UserName).Info("[bot] partner console started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, open := <-updates:
			if !open {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) followFeed(ctx context.Context) {
	sub := b.hub.Subscribe("")
	defer b.hub.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case e, open := <-sub.C:
			if !open {
				return
			}
			switch {
			case e.Op == live.OpInsert && e.Status == models.OrderStatusPending:
				b.pushNewOrder(ctx, e.RestaurantID, e.OrderID)
			case e.Op == live.OpUpdate:
				b.RefreshOrderCards(ctx, e.RestaurantID, e.OrderID)
			}
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		b.handleStart(ctx, chatID, msg.From.ID, msg.CommandArguments())
	case "categories":
		b.handleCategories(ctx, chatID)
	case "unlink":
		b.handleUnlink(ctx, chatID)
	case "":
		if categoryID, ok := b.takeAwaitingMessage(chatID); ok {
			b.sendCustomMessage(ctx, chatID, categoryID, msg.Text)
		}
	}
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("[bot] send")
	}
}

func (b *Bot) sendContent(chatID int64, c services.OrderCardContent) {
	msg := tgbotapi.NewMessage(chatID, c.Text)
	if kb := cardMarkup(c); kb != nil {
		msg.ReplyMarkup = *kb
	}
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("[bot] send")
	}
}

// restaurantFor resolves the chat's restaurant and tells the chat when it is not linked.
func (b *Bot) restaurantFor(ctx context.Context, chatID int64) (string, bool) {
	rid, err := services.RestaurantForChat(ctx, chatID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			b.send(chatID, "This chat is not linked yet. Create a link code in the partner app and send /start <code>.")
		} else {
			log.WithError(err).WithField("chat_id", chatID).Error("[bot] resolve chat")
			b.send(chatID, "Something went wrong, please try again.")
		}
		return "", false
	}
	return rid, true
}

func (b *Bot) handleStart(ctx context.Context, chatID, tgUserID int64, code string) {
	code = strings.TrimSpace(code)
	if code == "" {
		if rid, err := services.RestaurantForChat(ctx, chatID); err == nil {
			name, _ := services.RestaurantName(ctx, rid)
			b.send(chatID, fmt.Sprintf("This chat receives orders for %s. Use /categories to review pre-orders.", name))
			return
		}
		b.send(chatID, "Welcome to Yumzy Partner. Create a link code in the partner app and send /start <code>.")
		return
	}
	rid, err := services.RedeemTelegramLinkCode(ctx, code, chatID, tgUserID)
	if err != nil {
		var throttled *services.ThrottledError
		switch {
		case errors.As(err, &throttled):
			b.send(chatID, fmt.Sprintf("Too many attempts. Try again in %d seconds.", throttled.WaitSeconds))
		case errors.Is(err, services.ErrInvalidCredentials):
			b.send(chatID, "That code is invalid or expired.")
		default:
			log.WithError(err).WithField("chat_id", chatID).Error("[bot] redeem link code")
			b.send(chatID, "Something went wrong, please try again.")
		}
		return
	}
	name, _ := services.RestaurantName(ctx, rid)
	log.WithFields(log.Fields{"chat_id": chatID, "restaurant_id": rid}).Info("[bot] chat linked")
	b.send(chatID, fmt.Sprintf("✅ Linked to %s. New pre-orders will show up here. Use /categories to review them.", name))
}

func (b *Bot) handleUnlink(ctx context.Context, chatID int64) {
	if err := services.UnlinkChat(ctx, chatID); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("[bot] unlink")
		b.send(chatID, "Something went wrong, please try again.")
		return
	}
	b.send(chatID, "This chat will no longer receive orders.")
}

func (b *Bot) handleCategories(ctx context.Context, chatID int64) {
	rid, ok := b.restaurantFor(ctx, chatID)
	if !ok {
		return
	}
	cats, err := services.ListDashboardCategories(ctx, rid)
	if err != nil {
		log.WithError(err).WithField("restaurant_id", rid).Error("[bot] list categories")
		b.send(chatID, "Could not load categories.")
		return
	}
	b.sendContent(chatID, categoriesContent(cats))
}

func categoriesContent(cats []services.CategoryWithCount) services.OrderCardContent {
	if len(cats) == 0 {
		return services.OrderCardContent{Text: "No pre-order categories yet. Add them in the partner app."}
	}
	var buttons [][]services.OrderCardButton
	for _, c := range cats {
		label := c.Name
		if c.StartTime != "" || c.EndTime != "" {
			label += fmt.Sprintf(" (%s-%s)", c.StartTime, c.EndTime)
		}
		if c.OrderCount > 0 {
			label += fmt.Sprintf(" • %d new", c.OrderCount)
		}
		buttons = append(buttons, []services.OrderCardButton{{Text: label, CallbackData: "cat:" + c.ID}})
	}
	return services.OrderCardContent{Text: "📂 Pre-order categories", Buttons: buttons}
}

func (b *Bot) setAwaitingMessage(chatID int64, categoryID string) {
	b.awaitingMsgMu.Lock()
	b.awaitingMsg[chatID] = categoryID
	b.awaitingMsgMu.Unlock()
}

func (b *Bot) takeAwaitingMessage(chatID int64) (string, bool) {
	b.awaitingMsgMu.Lock()
	defer b.awaitingMsgMu.Unlock()
	id, ok := b.awaitingMsg[chatID]
	delete(b.awaitingMsg, chatID)
	return id, ok
}

func (b *Bot) sendCustomMessage(ctx context.Context, chatID int64, categoryID, text string) {
	rid, ok := b.restaurantFor(ctx, chatID)
	if !ok {
		return
	}
	_, board, err := services.CategoryBoard(ctx, rid, categoryID, models.AllLocations)
	if err != nil {
		b.send(chatID, "Category not found.")
		return
	}
	name, _ := services.RestaurantName(ctx, rid)
	sent, err := b.notifier.NotifyCustom(ctx, services.OrderIDs(board.Orders), text, name)
	switch {
	case err != nil:
		log.WithError(err).WithField("restaurant_id", rid).Warn("[bot] custom message")
		b.send(chatID, "Message not sent: "+err.Error())
	case !sent:
		b.send(chatID, "None of these customers can receive notifications.")
	default:
		b.send(chatID, fmt.Sprintf("📢 Message sent to customers of %d orders.", len(board.Orders)))
	}
}
