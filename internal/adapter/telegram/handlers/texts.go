package handlers

import "github.com/go-telegram/bot/models"

// User-facing texts are in Greek, the language of the bot's audience.
const (
	helpText = "🤖 *Ρυθμίσεις μηνύματος*\n\n" +
		"Με αυτό το bot διαλέγεις *πότε* θέλεις να σου έρχεται το μήνυμα.\n\n" +
		"━━━━━━━━━━━━━━\n" +
		"▶️ *Ενεργοποίηση*\n" +
		"/start\n\n" +
		"⏸️ *Παύση*\n" +
		"/stop\n\n" +
		"━━━━━━━━━━━━━━\n" +
		"🕒 *Αλλαγή μέρας & ώρας*\n" +
		"Απλά αντέγραψε ένα από τα παρακάτω (ή γράψε το δικό σου):\n\n" +
		"`/set Κυριακή 23:58`\n" +
		"`Δευτέρα 08:00`\n" +
		"`/set 21:15`\n\n" +
		"━━━━━━━━━━━━━━\n" +
		"📅 *Δες τη ρύθμισή σου*\n" +
		"/when\n\n" +
		"━━━━━━━━━━━━━━\n" +
		"💡 *Tips*\n" +
		"• Αν γράψεις μόνο ώρα, κρατάει την ίδια μέρα\n" +
		"• Μπορείς να στείλεις και σκέτο μήνυμα, χωρίς /set\n" +
		"• Παράδειγμα: `Τετάρτη 18:30`\n"

	msgStartedFmt = "✅ Ενεργοποιήθηκε!\n\n" +
		"🗓️ Τρέχουσα ρύθμιση:\n" +
		"%s στις %02d:%02d\n\n" +
		"🔧 Για αλλαγή ώρας, απλά αντέγραψε ένα από τα παρακάτω " +
		"ή στείλε το δικό σου με την ίδια λογική:\n\n" +
		"`/set Κυριακή 23:58`\n" +
		"`Δευτέρα 08:00`\n" +
		"`/set 21:15`\n\n" +
		"ℹ️ Tips:\n" +
		"• Αν γράψεις μόνο ώρα, κρατάει την ίδια μέρα\n" +
		"• Μπορείς να δεις τη ρύθμισή σου με /when\n" +
		"• Οδηγίες: /help"

	msgStopped = "⏸️ Έγινε παύση. Στείλε /start για να ξαναξεκινήσει."

	msgSetUsage = "🕒 Ρύθμιση ώρας\n\n" +
		"Παραδείγματα (tap για copy):\n" +
		"`/set Κυριακή 23:58`\n" +
		"`Δευτέρα 08:00`\n" +
		"`/set 21:15`\n\n" +
		"💡 Tip: Αν γράψεις μόνο ώρα, κρατάει την ίδια μέρα."

	msgSetUnparsable = "❌ Δεν κατάλαβα. Δοκίμασε π.χ. /set Τετάρτη 18:30"
	msgSetOKFmt      = "✅ ΟΚ! %s στις %02d:%02d"
	msgSetTextFmt    = "✅ Ρυθμίστηκε: %s στις %02d:%02d"

	msgWhenNone = "Δεν έχεις ρύθμιση ακόμα. Στείλε /start ή /set Δευτέρα 08:00"
	msgWhenFmt  = "🗓️ Ρύθμιση: %s στις %02d:%02d\n\n Πάτα Help για επιστροφή στο μενού."

	msgDenied = "⛔ Δεν έχεις δικαίωμα για αυτή την εντολή."

	msgSendNowUsage   = "Χρήση: /sendnow το μήνυμα εδώ"
	msgSendNowNobody  = "❌ Δεν υπάρχουν ενεργοί χρήστες."
	msgSendNowDoneFmt = "✅ Στάλθηκε σε %d | ❌ Απέτυχε σε %d"

	msgStatsFmt = "📊 Stats:\n✅ Ενεργοί: %d\n👥 Σύνολο: %d"

	msgLogSearchUsage = "Χρήση: /logsearch λέξη [lines]\nπ.χ. /logsearch set 500"
	msgLogEmpty       = "(κενό)"
	msgLogNoMatch     = "(δεν βρέθηκε)"
	msgLogMissingFmt  = "(Δεν βρέθηκε αρχείο: %s)"
	msgLogReadErrFmt  = "(Σφάλμα ανάγνωσης log: %v)"
	msgTruncatedMark  = "…(κόπηκε)\n"

	msgMenuStartedFmt = "✅ Ενεργοποιήθηκε!\n🗓️ %s στις %02d:%02d"
	msgMenuStopped    = "⏸️ Έγινε παύση."
	msgMenuPickDay    = "📅 Διάλεξε μέρα για το μήνυμα:"
	msgMenuWhenNone   = "Δεν έχεις ρύθμιση ακόμα. Πάτα ▶️ Ενεργοποίηση."
	msgMenuWhenFmt    = "📅 Ρύθμιση:\n%s στις %02d:%02d\n\n ━━━━━━━━━━━━━━━━━━━━━━━━━━━━"
	msgMenuDaySetFmt  = "✅ Ορίστηκε μέρα: %s\n\n" +
		"Τώρα στείλε ώρα (copy/paste):\n" +
		"`21:15`\n\n" +
		"ή γράψε π.χ. `Κυριακή 23:58`"
)

func mainMenuKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "▶️ Ενεργοποίηση", CallbackData: "action:start"},
				{Text: "⏸️ Παύση", CallbackData: "action:stop"},
			},
			{
				{Text: "🛠️ Ρύθμιση", CallbackData: "action:set"},
				{Text: "📅 Tρέχουσα Ρύθμιση", CallbackData: "action:when"},
			},
			{
				{Text: "ℹ️ Help", CallbackData: "action:help"},
			},
		},
	}
}

func dayPickerKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "Δευτέρα", CallbackData: "setday:0"},
				{Text: "Τρίτη", CallbackData: "setday:1"},
			},
			{
				{Text: "Τετάρτη", CallbackData: "setday:2"},
				{Text: "Πέμπτη", CallbackData: "setday:3"},
			},
			{
				{Text: "Παρασκευή", CallbackData: "setday:4"},
				{Text: "Σάββατο", CallbackData: "setday:5"},
			},
			{
				{Text: "Κυριακή", CallbackData: "setday:6"},
			},
			{
				{Text: "⬅️ Πίσω", CallbackData: "action:help"},
			},
		},
	}
}
