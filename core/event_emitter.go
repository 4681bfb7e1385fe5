package session

import events "github.com/reliefdesk/hotline-core/core/events"

type eventEmitter func(events.Event)

func newCallbackEventEmitter(opts StartOptions) eventEmitter {
	return func(event events.Event) {
		switch typedEvent := event.(type) {
		case events.CallConnected:
			if opts.onConnected != nil {
				opts.onConnected()
			}
		case events.CallEnded:
			if opts.onEnded != nil {
				opts.onEnded(typedEvent.Duration)
			}
		case events.CallFailed:
			if opts.onError != nil {
				opts.onError(typedEvent.Reason)
			}
		case events.CallerMessage:
			if opts.onMessage != nil {
				opts.onMessage(TranscriptMessage{
					Role:      RoleCaller,
					Text:      typedEvent.Text,
					Timestamp: typedEvent.Timestamp(),
				})
			}
		case events.OperatorMessage:
			if opts.onMessage != nil {
				opts.onMessage(TranscriptMessage{
					Role:      RoleOperator,
					Text:      typedEvent.Text,
					Timestamp: typedEvent.Timestamp(),
				})
			}
		case events.OperatorSpeakingStarted:
			if opts.onSpeakingStateChanged != nil {
				opts.onSpeakingStateChanged(true)
			}
		case events.OperatorSpeakingEnded:
			if opts.onSpeakingStateChanged != nil {
				opts.onSpeakingStateChanged(false)
			}
		case events.CallerFragment:
			if opts.onCallerFragment != nil {
				opts.onCallerFragment(typedEvent.Fragment)
			}
		case events.OperatorFragment:
			if opts.onOperatorFragment != nil {
				opts.onOperatorFragment(typedEvent.Fragment)
			}
		case events.CallerAudioFrame:
			if opts.onCallerAudio != nil {
				opts.onCallerAudio(typedEvent.Audio)
			}
		case events.OperatorAudioFrame:
			if opts.onOperatorAudio != nil {
				opts.onOperatorAudio(typedEvent.Audio)
			}
		}
	}
}
