package services

import "fmt"

// Email bodies delivered through the backend's notification endpoint. The
// backend mailer accepts both a plain-text and an HTML variant.

func bookingConfirmationMail(to string, bookingID int) Notification {
	return Notification{
		Message: fmt.Sprintf("Your booking %d has been created and is pending payment.", bookingID),
		MessageHTML: fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border-radius: 8px; border: 1px solid #e0e0e0;">
  <h1 style="color: #2C3E50; text-align: center;">Booking Received</h1>
  <div style="background-color: #f8f9fa; border-radius: 8px; padding: 20px;">
    <p style="color: #2C3E50; font-size: 16px;">We have registered your travel package booking:</p>
    <div style="background-color: #ffffff; border-radius: 6px; padding: 15px; border: 1px solid #e0e0e0;">
      <h2 style="color: #2C3E50; margin: 0; font-size: 18px;">Booking number:</h2>
      <p style="color: #3498DB; font-size: 24px; font-weight: bold; margin: 10px 0;">%d</p>
    </div>
    <p style="color: #2C3E50; font-size: 16px;">It will stay in your cart as pending until payment is completed.</p>
  </div>
  <p style="text-align: center; color: #7f8c8d; font-size: 14px; margin-top: 20px;">Viajes Global</p>
</div>`, bookingID),
		To:      to,
		Subject: "Booking received",
	}
}

func paymentConfirmationMail(to string, bookingID int) Notification {
	return Notification{
		Message: fmt.Sprintf("Payment started for booking: %d", bookingID),
		MessageHTML: fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border-radius: 8px; border: 1px solid #e0e0e0;">
  <h1 style="color: #2C3E50; text-align: center;">Payment Confirmed</h1>
  <div style="background-color: #f8f9fa; border-radius: 8px; padding: 20px;">
    <p style="color: #2C3E50; font-size: 16px;">We have received the payment for your booking:</p>
    <div style="background-color: #ffffff; border-radius: 6px; padding: 15px; border: 1px solid #e0e0e0;">
      <h2 style="color: #2C3E50; margin: 0; font-size: 18px;">Booking number:</h2>
      <p style="color: #3498DB; font-size: 24px; font-weight: bold; margin: 10px 0;">%d</p>
    </div>
    <p style="color: #2C3E50; font-size: 16px;">Thank you for trusting us. We will keep you posted on the state of your booking.</p>
  </div>
  <p style="text-align: center; color: #7f8c8d; font-size: 14px; margin-top: 20px;">Viajes Global</p>
</div>`, bookingID),
		To:      to,
		Subject: "Payment confirmed",
	}
}

func recoveryCodeMail(to, code string) Notification {
	return Notification{
		Message: fmt.Sprintf("Your password reset code is %s. It expires in 15 minutes.", code),
		MessageHTML: fmt.Sprintf(`<div style="background-color: white; max-width: 600px; margin: 20px auto; padding: 25px; border-radius: 15px; font-family: Arial, sans-serif; border: 2px solid #FFE4E6;">
  <h2 style="color: #FF6B7A; text-align: center; font-size: 24px;">Reset your password</h2>
  <p style="color: #4A5568; font-size: 15px;">Dear %s,</p>
  <p style="color: #4A5568; font-size: 15px;">You requested a password reset for your Viajes Global account. Your reset code is:</p>
  <div style="background-color: #FFF5F5; border: 1px dashed #FFB3B3; border-radius: 8px; padding: 15px; margin: 15px auto; width: fit-content; text-align: center;">
    <span style="color: #FF4757; font-size: 20px; font-weight: bold; letter-spacing: 1px;">%s</span>
  </div>
  <p style="color: #4A5568; font-size: 15px;">The code expires in 15 minutes. If you did not request this, please review your account access.</p>
  <p style="color: #FF6B7A; font-weight: bold; text-align: center; margin-top: 20px;">Viajes Global</p>
</div>`, to, code),
		To:      to,
		Subject: "Reset Password",
	}
}
