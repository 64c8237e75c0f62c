package analytics

// Event names emitted by the pipeline.
const (
	EventOfferResolveSuccess             = "offer_resolve_success"
	EventOfferResolveFail                = "offer_resolve_fail"
	EventWebViewOpened                   = "webview_opened"
	EventWebViewOpenedFromCache          = "webview_opened_from_cache"
	EventWebViewPresentationFailed       = "webview_presentation_failed"
	EventWebViewSessionStart             = "webview_session_start"
	EventWebViewSessionEnd               = "webview_session_end"
	EventWebViewSessionPaused            = "webview_session_paused"
	EventWebViewSessionResumed           = "webview_session_resumed"
	EventAppSessionStart                 = "app_session_start"
	EventAppSessionEnd                   = "app_session_end"
	EventRequestTrackingPermission       = "request_tracking_permission"
	EventRequestTrackingPermissionResult = "request_tracking_permission_result"
)

// Properties is an optional property map attached to an event.
type Properties map[string]any

// Sink receives fire-and-forget named events. Implementations must
// never block the caller on delivery.
type Sink interface {
	Capture(event string, props Properties)
	Identify(distinctID string)
}
