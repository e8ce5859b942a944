package notifications

import (
	"log"

	"github.com/hibiken/asynq"
)

// RegisterNotificationHandlers ลงทะเบียน Handler ทั้งหมดของ package notifications
func RegisterNotificationHandlers(mux *asynq.ServeMux) error {
	// ✅ 1) สร้าง sender จาก ENV
	// SMTP ไม่ครบ ไม่ fail ทั้ง worker: email จะถูก mark failed แต่ webhook ยังทำงานได้
	var sender MailSender
	if smtp, err := NewSMTPSenderFromEnv(); err != nil {
		log.Printf("⚠️ SMTP not configured, email notifications disabled: %v", err)
	} else {
		sender = smtp
	}

	// ✅ 2) ผูก handler กับ type ที่ใช้ใน task
	mux.HandleFunc(TypeSubmissionNotify, HandleSubmissionNotify(sender))
	mux.HandleFunc(TypeNotificationCleanup, HandleNotificationCleanup)
	mux.HandleFunc(TypeNotificationRetry, HandleNotificationRetry(sender))

	return nil
}
