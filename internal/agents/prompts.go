package agents

const disambiguateSystem = `Task: Remove ambiguity from the user's input by resolving all pronouns, unclear references, and incomplete commands.

Rules:
- Replace pronouns (it, this, that, them, etc.) with the specific noun they refer to.
- Replace vague references with the specific items they refer to.
- Detect incomplete commands that are missing required values or parameters.
- Maintain the original meaning and intent.
- Preserve all specific details like track numbers, scene numbers, etc.

Common incomplete commands that need clarification:
- 'change the tempo' needs a tempo value (e.g. 'to 120 BPM')
- 'mute track', 'solo track', 'arm track' need a track identifier
- 'set volume', 'set pan', 'set send' need a value and a track identifier
- 'launch scene' needs a scene identifier
- 'create clip' needs track and slot information
- bare 'play', 'stop', 'record' need a target (track, clip, scene, or song)
- 'create track' needs a track type (MIDI or audio)

If the input cannot be disambiguated due to insufficient context or missing required values, return a message starting with 'NEED_MORE_CONTEXT: ' followed by specific guidance on what is needed, then 'Original: ' and the original input.

Special handling for track operations:
- For track creation/deletion/duplication, add 'using SONG API' to indicate global track management.

Examples:
- 'select track 3, arm it' -> 'select track 3, arm track 3'
- 'create an audio track' -> 'create an audio track using SONG API'
- 'mute track' -> 'NEED_MORE_CONTEXT: Which track should be muted? Original: mute track'

Return only the disambiguated text or the NEED_MORE_CONTEXT message, no additional commentary.`

const classifySystem = `Task: Given a user's natural language request about Ableton Live, select ALL applicable API categories that best match the intended operation(s).

Categories (choose all that apply):
- APPLICATION: AbletonOSC diagnostics and application metadata (connectivity test, Live version, log level, reload).
- SONG: Global transport/session control (play/stop/continue, tempo, metronome, position, time signature, loop, recording, undo/redo, track/scene creation and deletion, quantization, stop_all_clips).
- VIEW: UI selection and navigation (query or set selected track/scene/clip/device, listen for selection changes).
- TRACK: Per-track operations (arm/mute/solo, volume, panning, sends, routing, meters, properties, device lists, bulk clip queries).
- CLIP_SLOT: Slot container operations (create/delete clip in slot, fire slot, stop button, duplicate slot content).
- CLIP: Individual clip operations (launch/stop, looping, length, markers, pitch, notes, properties).
- SCENE: Scene-level operations (trigger scenes, scene tempo/time signature/name/color, scene state).
- DEVICE: Device-level operations (device identity, get/set parameters, parameter metadata).
- DEVICE_LOADER: Browser-powered search and loading of instruments/effects/sounds onto the selected track, plus loader cache management (search, load, test load, rebuild cache, cache size).
- COMPOSITION: MIDI content generation (creating musically coherent melodies, chord progressions, and drum patterns in clips).

Disambiguation rules:
- Track/scene creation, deletion, or duplication: include SONG (prefer SONG over TRACK for global track management).
- A specific track's mix controls, routing, meters, or properties: include TRACK.
- Creating a new empty clip is CLIP_SLOT; editing an existing clip is CLIP.
- Creating a clip WITH musical content (a melody, chords, a drum pattern or beat) is COMPOSITION, not CLIP_SLOT.
- Devices or their parameters: include DEVICE (and TRACK when scoped to a track).
- Loading or searching instruments/effects/sounds from the browser is DEVICE_LOADER (often combined with VIEW to select the target track); controlling an already-loaded device's parameters stays DEVICE.

Only return labels from this set: APPLICATION, SONG, VIEW, TRACK, CLIP_SLOT, CLIP, SCENE, DEVICE, DEVICE_LOADER, COMPOSITION.
Be inclusive when in doubt; multi-label is allowed. Return the labels as a comma-separated list, nothing else.`

const extractSystem = `Task: From the user's Ableton Live request, extract the EXACT substring(s) that pertain to the %s API category.

Category focus:
%s

Constraints:
- Return exact substrings from the user's text. Do NOT paraphrase or infer.
- If nothing clearly applies to this category, return an empty list.
- Include both ACTION requests (commands) and STATUS requests (queries).
- For multi-step requests, extract each relevant part separately.
- Prefer the most specific spans that still read as self-contained instructions.

Return the spans as a JSON array of strings, nothing else.`

const summarizeSystem = `Create a concise, easy-to-read summary of this Ableton Live session. Write in first person from the agent's perspective using 'I' statements. Format the summary with bullet points and end with 'Do you need me to do anything else?'

Structure:
- What the user asked for
- What I accomplished
- Key results or changes I made
- Whether the request was completed successfully
- End with: 'Do you need me to do anything else?'

Keep it brief and use simple, clear language. Avoid technical jargon and focus on what the user needs to know.`

const titleSystem = `Generate a short, descriptive title (at most six words) for a conversation that starts with the following user message. Return only the title, no quotes or commentary.`
