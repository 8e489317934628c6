package healthcheck

type (
	// Reporter receives the result of every probe
	Reporter interface {
		UpstreamHealth(target string, up bool)
	}
)
