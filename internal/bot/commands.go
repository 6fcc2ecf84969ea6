package bot

import "github.com/disgoorg/disgo/discord"

// Commands is the full slash command surface registered on startup.
var Commands = []discord.ApplicationCommandCreate{
	discord.SlashCommandCreate{
		Name:        "warn",
		Description: "Warn a member and evaluate escalation rules",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionUser{
				Name:        "user",
				Description: "Member to warn",
				Required:    true,
			},
			discord.ApplicationCommandOptionString{
				Name:        "reason",
				Description: "Reason for the warning",
				Required:    true,
			},
		},
	},
	discord.SlashCommandCreate{
		Name:        "timeout",
		Description: "Time a member out",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionUser{
				Name:        "user",
				Description: "Member to time out",
				Required:    true,
			},
			discord.ApplicationCommandOptionString{
				Name:        "duration",
				Description: "Timeout length, e.g. 30m or 12h",
				Required:    true,
			},
			discord.ApplicationCommandOptionString{
				Name:        "reason",
				Description: "Reason for the timeout",
				Required:    true,
			},
		},
	},
	discord.SlashCommandCreate{
		Name:        "ban",
		Description: "Ban a member",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionUser{
				Name:        "user",
				Description: "Member to ban",
				Required:    true,
			},
			discord.ApplicationCommandOptionString{
				Name:        "kind",
				Description: "Ban kind",
				Required:    true,
				Choices: []discord.ApplicationCommandOptionChoiceString{
					{Name: "Temporary", Value: "temp"},
					{Name: "Indefinite", Value: "indefinite"},
					{Name: "Permanent", Value: "permanent"},
				},
			},
			discord.ApplicationCommandOptionString{
				Name:        "reason",
				Description: "Reason for the ban",
				Required:    true,
			},
			discord.ApplicationCommandOptionString{
				Name:        "duration",
				Description: "Ban length for temporary bans, e.g. 7d or 48h",
			},
		},
	},
	discord.SlashCommandCreate{
		Name:        "unban",
		Description: "Lift a member's ban",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionUser{
				Name:        "user",
				Description: "Member to unban",
				Required:    true,
			},
			discord.ApplicationCommandOptionString{
				Name:        "reason",
				Description: "Reason for lifting the ban",
				Required:    true,
			},
		},
	},
	discord.SlashCommandCreate{
		Name:        "strike",
		Description: "Issue a strike against a staff member",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionUser{
				Name:        "user",
				Description: "Staff member to strike",
				Required:    true,
			},
			discord.ApplicationCommandOptionString{
				Name:        "reason",
				Description: "Reason for the strike",
				Required:    true,
			},
		},
	},
	discord.SlashCommandCreate{
		Name:        "case",
		Description: "Look up a member's ban state and infraction record",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionUser{
				Name:        "user",
				Description: "Member to look up",
				Required:    true,
			},
		},
	},
	discord.SlashCommandCreate{
		Name:        "clear",
		Description: "Remove infraction records",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "one",
				Description: "Remove a single infraction by ID",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionInt{
						Name:        "id",
						Description: "Infraction ID",
						Required:    true,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "all",
				Description: "Remove a member's entire record",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionUser{
						Name:        "user",
						Description: "Member whose record to clear",
						Required:    true,
					},
				},
			},
		},
	},
	discord.SlashCommandCreate{
		Name:        "rules",
		Description: "Manage escalation and strike rules",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommandGroup{
				Name:        "escalation",
				Description: "Warn escalation rules",
				Options: []discord.ApplicationCommandOptionSubCommand{
					{
						Name:        "add",
						Description: "Add an escalation rule",
						Options: []discord.ApplicationCommandOption{
							discord.ApplicationCommandOptionInt{
								Name:        "threshold",
								Description: "Warnings required to trigger",
								Required:    true,
							},
							discord.ApplicationCommandOptionString{
								Name:        "window",
								Description: "Counting window, e.g. 24h or 7d",
								Required:    true,
							},
							discord.ApplicationCommandOptionString{
								Name:        "punishment",
								Description: "Punishment to apply",
								Required:    true,
								Choices: []discord.ApplicationCommandOptionChoiceString{
									{Name: "Timeout", Value: "timeout"},
									{Name: "Temporary ban", Value: "temp"},
									{Name: "Indefinite ban", Value: "indefinite"},
									{Name: "Permanent ban", Value: "permanent"},
								},
							},
							discord.ApplicationCommandOptionString{
								Name:        "duration",
								Description: "Punishment length for timeouts and temporary bans",
							},
						},
					},
					{
						Name:        "remove",
						Description: "Remove an escalation rule",
						Options: []discord.ApplicationCommandOption{
							discord.ApplicationCommandOptionInt{
								Name:        "threshold",
								Description: "Rule's warn threshold",
								Required:    true,
							},
							discord.ApplicationCommandOptionString{
								Name:        "window",
								Description: "Rule's counting window",
								Required:    true,
							},
						},
					},
					{
						Name:        "list",
						Description: "List escalation rules in evaluation order",
					},
				},
			},
			discord.ApplicationCommandOptionSubCommandGroup{
				Name:        "strike",
				Description: "Staff strike rules",
				Options: []discord.ApplicationCommandOptionSubCommand{
					{
						Name:        "add",
						Description: "Add a strike rule",
						Options: []discord.ApplicationCommandOption{
							discord.ApplicationCommandOptionInt{
								Name:        "count",
								Description: "Exact strike count that triggers the rule",
								Required:    true,
							},
							discord.ApplicationCommandOptionString{
								Name:        "punishment",
								Description: "Punishment to apply",
								Required:    true,
								Choices: []discord.ApplicationCommandOptionChoiceString{
									{Name: "Downgrade", Value: "downgrade"},
									{Name: "Kick from ladder", Value: "kick"},
								},
							},
						},
					},
					{
						Name:        "remove",
						Description: "Remove a strike rule",
						Options: []discord.ApplicationCommandOption{
							discord.ApplicationCommandOptionInt{
								Name:        "count",
								Description: "Rule's strike count",
								Required:    true,
							},
						},
					},
					{
						Name:        "list",
						Description: "List strike rules",
					},
				},
			},
		},
	},
}
