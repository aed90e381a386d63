package i18n

// API message keys.
const (
	MsgMissingInputs        = "missingInputs"
	MsgImageGenerated       = "imageGenerated"
	MsgNoContent            = "noContent"
	MsgSuccess              = "success"
	MsgFailed               = "failed"
	MsgUnknownError         = "unknownError"
	MsgInvalidResponse      = "invalidResponse"
	MsgRateLimited          = "rateLimited"
	MsgModelNotConfigured   = "modelNotConfigured"
	MsgMissingProduct       = "missingProduct"
	MsgBillingUnavailable   = "billingUnavailable"
	MsgCheckoutFailed       = "checkoutFailed"
	MsgCheckoutForbidden    = "checkoutForbidden"
	MsgInvalidProvider      = "invalidProvider"
	MsgLoginFailed          = "loginFailed"
	MsgLoggedOut            = "loggedOut"
	MsgUnauthorized         = "unauthorized"
	MsgSubscriptionFailed   = "subscriptionFailed"
	MsgInvalidImage         = "invalidImage"
	MsgImageTooLarge        = "imageTooLarge"
	MsgUploadFailed         = "uploadFailed"
	MsgInvalidRequest       = "invalidRequest"
	MsgWebhookNotConfigured = "webhookNotConfigured"
)

var apiMessages = map[string]map[Locale]string{
	MsgMissingInputs: {
		English: "Missing image or prompt",
		Chinese: "缺少图片或提示词",
	},
	MsgImageGenerated: {
		English: "✨ AI has generated a new image! Please check the result below.",
		Chinese: "✨ AI 已生成新图片！请查看下方的生成结果。",
	},
	MsgNoContent: {
		English: "AI returned a response, but there is no displayable content. Please check the console for details.",
		Chinese: "AI 返回了响应，但没有可显示的内容。请查看控制台了解详细信息。",
	},
	MsgSuccess: {
		English: "Image processed successfully!",
		Chinese: "图片处理成功！",
	},
	MsgFailed: {
		English: "Image generation failed",
		Chinese: "图片生成失败",
	},
	MsgUnknownError: {
		English: "Unknown error",
		Chinese: "未知错误",
	},
	MsgInvalidResponse: {
		English: "API returned an invalid response",
		Chinese: "API 返回了无效的响应",
	},
	MsgRateLimited: {
		English: "Too many requests, please try again in a minute",
		Chinese: "请求过于频繁，请稍后再试",
	},
	MsgModelNotConfigured: {
		English: "The image model is not configured",
		Chinese: "图片模型尚未配置",
	},
	MsgMissingProduct: {
		English: "Product ID is required",
		Chinese: "缺少产品 ID",
	},
	MsgBillingUnavailable: {
		English: "Payment system not configured",
		Chinese: "支付系统尚未配置",
	},
	MsgCheckoutFailed: {
		English: "Failed to create checkout session",
		Chinese: "创建支付会话失败",
	},
	MsgCheckoutForbidden: {
		English: "The payment provider rejected the API key. Check that the key is valid, matches the environment (test or live) and can access this product.",
		Chinese: "支付服务拒绝了 API 密钥。请确认密钥有效、与环境（测试或正式）一致，并且有权访问该产品。",
	},
	MsgInvalidProvider: {
		English: "Invalid provider",
		Chinese: "无效的登录方式",
	},
	MsgLoginFailed: {
		English: "Sign-in failed",
		Chinese: "登录失败",
	},
	MsgLoggedOut: {
		English: "Successfully logged out from %s",
		Chinese: "已成功退出 %s 登录",
	},
	MsgUnauthorized: {
		English: "Please sign in first",
		Chinese: "请先登录",
	},
	MsgSubscriptionFailed: {
		English: "Failed to get subscription status",
		Chinese: "获取订阅状态失败",
	},
	MsgInvalidImage: {
		English: "The file is not a supported image",
		Chinese: "文件不是受支持的图片格式",
	},
	MsgImageTooLarge: {
		English: "The image is larger than 10 MB",
		Chinese: "图片大小超过 10 MB",
	},
	MsgUploadFailed: {
		English: "Image upload failed",
		Chinese: "图片上传失败",
	},
	MsgInvalidRequest: {
		English: "Invalid request",
		Chinese: "无效的请求",
	},
	MsgWebhookNotConfigured: {
		English: "Webhook secret not configured",
		Chinese: "Webhook 密钥尚未配置",
	},
}

// Message returns the API message for key in l, falling back to English and
// then to the key itself.
func Message(key string, l Locale) string {
	m, ok := apiMessages[key]
	if !ok {
		return key
	}
	if s, ok := m[l]; ok {
		return s
	}
	return m[English]
}
