package types

// Event types published on the bus. Payload keys are listed per type.
const (
	// EventWildcard subscribes to every event type.
	EventWildcard = "*"

	// EventModemInitialized is published after a successful ATZ. No payload.
	EventModemInitialized = "MODEM_INITIALIZED"

	// EventBBSConnected is published once the BBS banner has been shown.
	// Payload: number, bbs.
	EventBBSConnected = "BBS_CONNECTED"

	// EventBBSDisconnected is published when the line drops. Payload: reason.
	EventBBSDisconnected = "BBS_DISCONNECTED"

	// EventFileDownloaded is published when a transfer finishes.
	// Payload: item, source.
	EventFileDownloaded = "FILE_DOWNLOADED"

	// EventToolsDownloaded is published once both mailer and editor are on disk.
	EventToolsDownloaded = "TOOLS_DOWNLOADED"

	// EventDialogueCompleted is published by a dialogue step's on_enter hook.
	// Payload: dialogue, choice.
	EventDialogueCompleted = "DIALOGUE_COMPLETED"

	// EventConfigSaved is published after a config file passes validation.
	// Payload: app, path.
	EventConfigSaved = "CONFIG_SAVED"

	// EventMailTossed is published at the end of a mail session.
	// Payload: messages, zmh.
	EventMailTossed = "MAIL_TOSSED"

	// EventMessageRead is published when a message is opened.
	// Payload: area, subj_contains (full subject line), from.
	EventMessageRead = "MESSAGE_READ"

	// EventMessagePosted is published when a reply is written. Payload: area, to.
	EventMessagePosted = "MESSAGE_POSTED"

	// EventCommandExecuted is published by tech tools. Payload: command, args.
	EventCommandExecuted = "COMMAND_EXECUTED"

	// EventQuestStepCompleted notifies observers of step progress.
	// Payload: questId, stepId, description.
	EventQuestStepCompleted = "QUEST_STEP_COMPLETED"

	// EventQuestCompleted is published after rewards are applied. Payload: questId.
	EventQuestCompleted = "QUEST_COMPLETED"

	// EventActChanged is published on an act transition. Payload: act.
	EventActChanged = "ACT_CHANGED"

	// EventDayChanged is published when the clock rolls past midnight. Payload: day.
	EventDayChanged = "DAY_CHANGED"

	// EventPhaseChanged is published on day/night transitions. Payload: phase.
	EventPhaseChanged = "PHASE_CHANGED"

	// EventZMHStarted is published when Zone Mail Hour begins.
	EventZMHStarted = "ZMH_STARTED"

	// EventBillIssued is published when the phone bill arrives. Payload: amount, day.
	EventBillIssued = "BILL_ISSUED"

	// EventGameOver is published once per session. Payload: reason.
	EventGameOver = "GAME_OVER"

	// EventRandom is published when a random event fires. Payload: id.
	EventRandom = "RANDOM_EVENT"
)
